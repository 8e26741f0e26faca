package main

import (
	"fmt"
	"sort"

	markdowncmd "github.com/goliatone/go-dyncms/internal/commands/markdown"
	"github.com/goliatone/go-dyncms/internal/markdown"
	"github.com/spf13/cobra"
)

var (
	flagImportType      string
	flagImportBodyField string
	flagImportRecursive bool
	flagImportDryRun    bool
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import markdown files as records of a content type",
	Long: `Import every .md file under dir. Front matter keys map to fields by name and
the body goes to the first markdown (or textarea) field unless --body-field
names one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result *markdown.ImportResult
		handlers, err := app.module.Container().RegisterCommands(nil,
			markdowncmd.WithReporter(func(_ markdowncmd.ImportDirectoryCommand, r *markdown.ImportResult) {
				result = r
			}),
		)
		if err != nil {
			return err
		}
		err = handlers.Markdown.Execute(cmd.Context(), markdowncmd.ImportDirectoryCommand{
			Directory:   args[0],
			ContentType: flagImportType,
			BodyField:   flagImportBodyField,
			Recursive:   flagImportRecursive,
			DryRun:      flagImportDryRun,
		})
		if err != nil {
			return err
		}
		if result == nil {
			return nil
		}

		out := cmd.OutOrStdout()
		if flagImportDryRun {
			fmt.Fprintf(out, "validated %d record(s)\n", result.Validated)
		} else {
			fmt.Fprintf(out, "imported %d record(s)\n", len(result.Imported))
		}
		paths := make([]string, 0, len(result.Failures))
		for path := range result.Failures {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			fmt.Fprintf(out, "failed %s: %v\n", path, result.Failures[path])
		}
		if len(paths) > 0 {
			return fmt.Errorf("%d file(s) failed to import", len(paths))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&flagImportType, "type", "", "content type slug (required)")
	importCmd.Flags().StringVar(&flagImportBodyField, "body-field", "", "field receiving the markdown body")
	importCmd.Flags().BoolVar(&flagImportRecursive, "recursive", true, "walk subdirectories")
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "validate without storing records")
	_ = importCmd.MarkFlagRequired("type")
}
