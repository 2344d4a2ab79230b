package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:     "profile <url>",
	Short:   "Analyze a GitHub developer profile",
	Example: "  gitinsight profile https://github.com/torvalds",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAnalyzer()
		if err != nil {
			return err
		}
		res, err := a.AnalyzeProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if wantJSON() {
			return writeJSON(os.Stdout, res)
		}
		return renderProfile(os.Stdout, res)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
