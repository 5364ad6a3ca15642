package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tbl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tbl",
	Short: "TBL weighted random table compiler and toolchain",
	Long:  `tbl parses, validates, and generates from weighted random table sources`,
}

var log = logrus.New()

func init() {
	rootCmd.Version = version.VersionString()

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log cache resolution details")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("cache-dir", "", "override the parsed-program cache directory")

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
}

func main() {
	rootCmd.PersistentPreRunE = applyVerbosity
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyVerbosity(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return err
	}
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return nil
}
