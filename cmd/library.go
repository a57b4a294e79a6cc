package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"doc-composer/feature/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// libraryCmd represents the library command
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect and manage the document library",
}

// libraryListCmd represents the library list command
var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the merged library with sources and collisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(false)
		if err != nil {
			return err
		}
		defer env.close()

		snap, err := env.cache.Get(cmd.Context())
		if err != nil {
			return err
		}

		if jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"items":      snap.Index.Items(),
				"collisions": snap.Index.Collisions(),
				"shadowed":   snap.Index.Shadowed(),
			})
		}
		return report.RenderLibrary(os.Stdout, snap.Index, report.Options{Color: !noColor})
	},
}

// libraryRegisterCmd represents the library register command
var libraryRegisterCmd = &cobra.Command{
	Use:   "register NAME LOCATION",
	Short: "Register a document in the catalog database",
	Long:  `Adds or updates a catalog row. LOCATION is a file path or an s3://bucket/key URL. The catalog table is created when missing.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(true)
		if err != nil {
			return err
		}
		defer env.close()

		ctx := cmd.Context()
		if err := env.catalog.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate catalog: %w", err)
		}
		if err := env.catalog.Register(ctx, args[0], args[1]); err != nil {
			return err
		}

		env.logger.Info("Document registered", zap.String("name", args[0]), zap.String("location", args[1]))
		return nil
	},
}

// libraryCheckCmd represents the library check command
var libraryCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the library sources and report name collisions",
	Long:  `Loads every configured source, verifies the catalog table when the catalog is enabled and fails when names collide.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(false)
		if err != nil {
			return err
		}
		defer env.close()

		ctx := cmd.Context()
		if env.catalog != nil {
			if err := env.catalog.Verify(ctx); err != nil {
				return err
			}
			env.logger.Info("Catalog table verified", zap.String("table", env.catalog.Table))
		}

		snap, err := env.cache.Get(ctx)
		if err != nil {
			return err
		}
		if err := report.RenderLibrary(os.Stdout, snap.Index, report.Options{Color: !noColor}); err != nil {
			return err
		}
		return snap.Index.Err()
	},
}

func init() {
	libraryListCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output the library as JSON")
	libraryListCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	libraryCheckCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	libraryCmd.AddCommand(libraryListCmd, libraryRegisterCmd, libraryCheckCmd)
	RootCmd.AddCommand(libraryCmd)
}
