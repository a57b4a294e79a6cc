package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"doc-composer/feature/batch"
	"doc-composer/feature/report"

	"github.com/spf13/cobra"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Compose every job of a YAML job file",
	Long: `Composes several documents concurrently. The library is loaded once and
shared by all jobs; fuzzy matches are accepted only when the file sets accept_fuzzy.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := batch.Load(args[0])
		if err != nil {
			return err
		}

		env, err := setup(false)
		if err != nil {
			return err
		}
		defer env.close()

		runner := batch.NewRunner(env.service(), env.logger, env.cfg.Compose.Workers)
		results, err := runner.Run(cmd.Context(), f)
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Failed() {
				failed++
			}
		}

		if jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return err
			}
		} else {
			t := report.NewTable(fmt.Sprintf("Batch: %d jobs", len(results)), "Job", "Output", "Pages", "Skipped", "Time", "Status")
			for _, r := range results {
				status := "ok"
				if r.Failed() {
					status = r.Error
				}
				t.AddRow(r.Job.Name, r.Job.Output, strconv.Itoa(r.Pages), strconv.Itoa(r.Skipped), r.Duration.Round(time.Millisecond).String(), status)
			}
			if err := t.Render(os.Stdout, report.Options{Color: !noColor}); err != nil {
				return err
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d jobs failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output job results as JSON")
	batchCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	RootCmd.AddCommand(batchCmd)
}
