package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"doc-composer/feature/report"

	"github.com/spf13/cobra"
)

var strictFlag bool

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Match a manifest against the library without composing",
	Long: `Dry run: prints how every manifest entry resolves, with suggestions for entries that do not match.

With --fail-on-unresolved the command exits non-zero when an entry matches nothing;
--strict also fails on fuzzy matches and library collisions.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(false)
		if err != nil {
			return err
		}
		defer env.close()

		text, err := os.ReadFile(manifestPath)
		if err != nil {
			return fmt.Errorf("failed to read manifest: %w", err)
		}

		svc, err := serviceWithFlags(cmd, env)
		if err != nil {
			return err
		}

		plan, err := svc.Plan(cmd.Context(), string(text))
		if err != nil {
			return err
		}
		summary := report.Build(plan.Results, plan.Snapshot.Index, report.DefaultSuggestions)

		if jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			err = enc.Encode(summary)
		} else {
			err = report.Render(os.Stdout, summary, report.Options{Color: !noColor})
		}
		if err != nil {
			return err
		}

		if strictFlag || svc.Options().FailOnUnresolved {
			return summary.Err(strictFlag)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Markdown manifest listing the documents")
	resolveCmd.Flags().Float64Var(&thresholdFlag, "threshold", 0, "Fuzzy match threshold in [0, 1]")
	resolveCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output the report as JSON")
	resolveCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	resolveCmd.Flags().BoolVar(&failOnUnresolved, "fail-on-unresolved", false, "Exit non-zero when any entry has no match")
	resolveCmd.Flags().BoolVar(&strictFlag, "strict", false, "Exit non-zero unless every entry matches exactly and the library has no collisions")
	_ = resolveCmd.MarkFlagRequired("manifest")

	RootCmd.AddCommand(resolveCmd)
}
