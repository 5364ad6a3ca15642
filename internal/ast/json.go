package ast

import "encoding/json"

// The JSON produced here follows spec.md §6.2's abridged AST schema
// exactly: Program/Table/Rule/Segment/Expression each marshal to the
// documented shape rather than to Go's default struct-field encoding.

type spanJSON struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

type spannedJSON struct {
	Value json.RawMessage `json:"value"`
	Span  spanJSON        `json:"span"`
}

func wrap(v any, start, end uint32) (spannedJSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return spannedJSON{}, err
	}
	return spannedJSON{Value: raw, Span: spanJSON{Start: start, End: end}}, nil
}

// MarshalJSON encodes Program as { "tables": [Spanned<Table>...] }.
func (p *Program) MarshalJSON() ([]byte, error) {
	tables := make([]spannedJSON, 0, len(p.Tables))
	for _, t := range p.Tables {
		w, err := wrap(tableWire{Metadata: tableMetaWire{ID: t.ID, Export: t.Exported}, Rules: rulesWire(t.Rules)}, t.Span.Start, t.Span.End)
		if err != nil {
			return nil, err
		}
		tables = append(tables, w)
	}
	return json.Marshal(struct {
		Tables []spannedJSON `json:"tables"`
	}{Tables: tables})
}

type tableMetaWire struct {
	ID     string `json:"id"`
	Export bool   `json:"export"`
}

type tableWire struct {
	Metadata tableMetaWire `json:"metadata"`
	Rules    []spannedJSON `json:"rules"`
}

func rulesWire(rules []*Rule) []spannedJSON {
	out := make([]spannedJSON, 0, len(rules))
	for _, r := range rules {
		w, err := wrap(ruleWire{Weight: r.Weight, Content: segmentsWire(r.Content)}, r.Span.Start, r.Span.End)
		if err != nil {
			// Marshaling literal Go values (float64, string, slices of the
			// same) cannot fail; a failure here is a programmer error.
			panic(err)
		}
		out = append(out, w)
	}
	return out
}

type ruleWire struct {
	Weight  float64           `json:"weight"`
	Content []json.RawMessage `json:"content"`
}

func segmentsWire(segs []Segment) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(segs))
	for _, s := range segs {
		raw, err := json.Marshal(segmentWire(s))
		if err != nil {
			panic(err)
		}
		out = append(out, raw)
	}
	return out
}

func segmentWire(s Segment) any {
	switch s.Kind {
	case SegmentLiteral:
		return struct {
			Literal string `json:"literal"`
		}{Literal: s.Text}
	case SegmentExpression:
		return struct {
			Expression any `json:"expression"`
		}{Expression: expressionWire(s.Expr)}
	default:
		return struct{}{}
	}
}

func expressionWire(e *Expression) any {
	if e == nil {
		return struct{}{}
	}
	switch e.Kind {
	case ExprDiceRoll:
		return struct {
			DiceRoll diceRollWire `json:"dice_roll"`
		}{DiceRoll: diceRollWire{Count: e.DiceCount, Sides: e.DiceSides}}
	case ExprTableReference:
		mods := make([]string, len(e.Modifiers))
		for i, m := range e.Modifiers {
			mods[i] = m.String()
		}
		return struct {
			TableReference tableRefWire `json:"table_reference"`
		}{TableReference: tableRefWire{TableID: e.TargetID, Modifiers: mods}}
	default:
		return struct{}{}
	}
}

type diceRollWire struct {
	Count uint32 `json:"count"`
	Sides uint32 `json:"sides"`
}

type tableRefWire struct {
	TableID   string   `json:"table_id"`
	Modifiers []string `json:"modifiers"`
}

// ToJSON renders the program as a standalone JSON document, the form
// returned by the `parse` facade operation (spec.md §6).
func (p *Program) ToJSON() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
