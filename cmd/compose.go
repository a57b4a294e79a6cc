package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"doc-composer/feature/compose"
	"doc-composer/feature/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	manifestPath     string
	masterPath       string
	outputPath       string
	thresholdFlag    float64
	noInteractive    bool
	onRejectFlag     string
	failOnUnresolved bool
	uploadFlag       bool
	uploadKey        string
	jsonFlag         bool
	noColor          bool
)

// composeCmd represents the compose command
var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Assemble a document from a manifest",
	Long: `Resolves every bullet of the manifest against the library, asks for
confirmation of fuzzy matches and merges the selected pages onto the master template.`,
	Args: cobra.NoArgs,
	RunE: runCompose,
}

// composeResult is the --json output of compose.
type composeResult struct {
	Summary  report.Summary `json:"summary"`
	Output   string         `json:"output,omitempty"`
	Location string         `json:"location,omitempty"`
	Pages    int            `json:"pages"`
	Skipped  int            `json:"skipped"`
	Size     int64          `json:"size"`
	Warnings []string       `json:"warnings,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func runCompose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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
	opts := svc.Options()

	plan, err := svc.Plan(ctx, string(text))
	if err != nil {
		return err
	}
	summary := report.Build(plan.Results, plan.Snapshot.Index, report.DefaultSuggestions)

	// Questions go to stderr when stdout carries JSON.
	var out io.Writer = os.Stdout
	if jsonFlag {
		out = os.Stderr
	} else if err := report.Render(out, summary, report.Options{Color: !noColor}); err != nil {
		return err
	}

	var confirmer compose.Confirmer
	if opts.Interactive && len(summary.NeedsConfirmation()) > 0 {
		fmt.Fprintln(out)
		confirmer = compose.NewPrompt(os.Stdin, out)
	}

	output := outputPath
	if output == "" {
		stem := strings.TrimSuffix(filepath.Base(manifestPath), filepath.Ext(manifestPath))
		output = filepath.Join(env.cfg.Compose.OutputDir, stem+".docx")
	}

	outcome, err := svc.Complete(ctx, plan, compose.Request{
		Master:    masterPath,
		Output:    output,
		Confirmer: confirmer,
	})

	result := composeResult{Summary: summary}
	if outcome != nil {
		result.Skipped = len(plan.Results) - len(outcome.Selected)
		if outcome.Merge != nil {
			result.Output = outcome.Output
			result.Pages = outcome.Merge.Pages
			result.Size = outcome.Size
			result.Warnings = outcome.Merge.Warnings
		}
	}

	if err == nil && uploadFlag {
		data, readErr := os.ReadFile(output)
		if readErr != nil {
			err = fmt.Errorf("failed to read composed document: %w", readErr)
		} else {
			result.Location, err = svc.Upload(ctx, uploadKey, data)
		}
	}

	if jsonFlag {
		if err != nil {
			result.Error = err.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(result); encErr != nil {
			return encErr
		}
		return err
	}

	if err != nil {
		if errors.Is(err, compose.ErrNothingToCompose) {
			fmt.Println("\nNo valid documents to compose. Edit the manifest or add the missing documents to the library.")
		}
		return err
	}

	for _, w := range result.Warnings {
		env.logger.Warn("Merge warning", zap.String("warning", w))
	}
	fmt.Printf("\nDocument saved to %s (%d pages, %d bytes)\n", result.Output, result.Pages, result.Size)
	if result.Skipped > 0 {
		fmt.Printf("%d manifest entries were skipped\n", result.Skipped)
	}
	if result.Location != "" {
		fmt.Printf("Uploaded to %s\n", result.Location)
	}
	return nil
}

// serviceWithFlags applies the flags the user set over the configured options.
func serviceWithFlags(cmd *cobra.Command, env *environment) (*compose.Service, error) {
	svc := env.service()
	opts := svc.Options()
	flags := cmd.Flags()

	if flags.Changed("threshold") {
		if thresholdFlag < 0 || thresholdFlag > 1 {
			return nil, fmt.Errorf("threshold must be within [0, 1], got %v", thresholdFlag)
		}
		opts.Threshold = thresholdFlag
	}
	if flags.Changed("no-interactive") {
		opts.Interactive = !noInteractive
	}
	if flags.Changed("on-reject") {
		switch compose.OnReject(onRejectFlag) {
		case compose.RejectSkip, compose.RejectAbort:
			opts.OnReject = compose.OnReject(onRejectFlag)
		default:
			return nil, fmt.Errorf("on-reject must be skip or abort, got %q", onRejectFlag)
		}
	}
	if flags.Changed("fail-on-unresolved") {
		opts.FailOnUnresolved = failOnUnresolved
	}
	return svc.With(opts), nil
}

func init() {
	composeCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Markdown manifest listing the documents")
	composeCmd.Flags().StringVar(&masterPath, "master", "", "Master template (path or s3://bucket/key), defaults to compose.master")
	composeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output .docx path, defaults to <output_dir>/<manifest>.docx")
	composeCmd.Flags().Float64Var(&thresholdFlag, "threshold", 0, "Fuzzy match threshold in [0, 1]")
	composeCmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "Accept fuzzy matches without asking")
	composeCmd.Flags().StringVar(&onRejectFlag, "on-reject", "", "What a rejected fuzzy match does: skip or abort")
	composeCmd.Flags().BoolVar(&failOnUnresolved, "fail-on-unresolved", false, "Fail when any entry has no match")
	composeCmd.Flags().BoolVar(&uploadFlag, "upload", false, "Upload the composed document to the storage bucket")
	composeCmd.Flags().StringVar(&uploadKey, "upload-key", "", "Object key for --upload, generated when empty")
	composeCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output the result as JSON")
	composeCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	_ = composeCmd.MarkFlagRequired("manifest")

	RootCmd.AddCommand(composeCmd)
}
