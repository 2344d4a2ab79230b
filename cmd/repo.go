package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/drpaneas/gitinsight/internal/export"
)

var repoMarkdown bool

var repoCmd = &cobra.Command{
	Use:   "repo <url>",
	Short: "Analyze a GitHub repository",
	Long: `Analyze a repository: tech stack, structure summary, a quality rating and
the notable functions, classes and variables found in a sample of its files.`,
	Example: "  gitinsight repo https://github.com/spf13/cobra",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAnalyzer()
		if err != nil {
			return err
		}
		res, err := a.AnalyzeRepository(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		switch {
		case repoMarkdown:
			return export.WriteItemsMarkdown(os.Stdout, res.Items)
		case wantJSON():
			return writeJSON(os.Stdout, res)
		default:
			return renderRepository(os.Stdout, res)
		}
	},
}

func init() {
	repoCmd.Flags().BoolVar(&repoMarkdown, "markdown", false, "Print only the code elements as Markdown")
	rootCmd.AddCommand(repoCmd)
}
