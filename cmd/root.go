package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "reqpilot",
	Short: "Interactive requirements elicitation and confirmation",
	Long: `ReqPilot interviews you about a product idea, extracts structured
requirements facts turn by turn, scores how complete the picture is, and
walks you through confirming a final summary. Confirmed sessions produce
a frozen digest ready for document generation, and generated documents
can be scored for quality.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".reqpilot.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every HTTP request")
}
