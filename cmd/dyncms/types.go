package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-dyncms"
	contenttypescmd "github.com/goliatone/go-dyncms/internal/commands/contenttypes"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Manage content types",
}

var flagTypesJSON bool

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List content types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := app.module.ContentTypes().List(cmd.Context())
		if err != nil {
			return err
		}
		if flagTypesJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tFIELDS")
		for _, ct := range list {
			names := make([]string, 0, len(ct.Fields))
			for _, f := range ct.Fields {
				names = append(names, f.Name+":"+string(f.Type))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ct.Slug, ct.Name, strings.Join(names, ", "))
		}
		return w.Flush()
	},
}

var (
	flagTypeSlug   string
	flagTypeIcon   string
	flagTypeFields []string
)

var typesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a content type",
	Long: `Create a content type. Fields are given as name:type[:required][:opt1|opt2],
for example --field Title:text:required --field Status:select::draft|published.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := make([]fields.Field, 0, len(flagTypeFields))
		for _, raw := range flagTypeFields {
			field, err := parseFieldFlag(raw)
			if err != nil {
				return err
			}
			defs = append(defs, field)
		}
		handlers, err := app.module.RegisterCommands(nil)
		if err != nil {
			return err
		}
		name := strings.Join(args, " ")
		err = handlers.ContentTypes.Create.Execute(cmd.Context(), contenttypescmd.CreateContentTypeCommand{
			Name:   name,
			Slug:   flagTypeSlug,
			Icon:   flagTypeIcon,
			Fields: defs,
		})
		if err != nil {
			return err
		}
		slug := strings.ToLower(strings.TrimSpace(flagTypeSlug))
		if slug == "" {
			slug = dyncms.Slugify(name)
		}
		ct, err := app.module.ContentTypes().GetBySlug(cmd.Context(), slug)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", ct.Slug, ct.ID)
		return nil
	},
}

var typesDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a content type with its records, endpoints and menu entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ct, err := app.module.ContentTypes().GetBySlug(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		handlers, err := app.module.RegisterCommands(nil)
		if err != nil {
			return err
		}
		if err := handlers.ContentTypes.Delete.Execute(cmd.Context(), contenttypescmd.DeleteContentTypeCommand{ID: ct.ID}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", ct.Slug)
		return nil
	},
}

func init() {
	typesListCmd.Flags().BoolVar(&flagTypesJSON, "json", false, "print JSON")
	typesCreateCmd.Flags().StringVar(&flagTypeSlug, "slug", "", "explicit slug (default: derived from the name)")
	typesCreateCmd.Flags().StringVar(&flagTypeIcon, "icon", "", "icon name")
	typesCreateCmd.Flags().StringArrayVar(&flagTypeFields, "field", nil, "field definition name:type[:required][:opt1|opt2] (repeatable)")

	typesCmd.AddCommand(typesListCmd)
	typesCmd.AddCommand(typesCreateCmd)
	typesCmd.AddCommand(typesDeleteCmd)
}

// parseFieldFlag reads name:type[:required][:opt1|opt2].
func parseFieldFlag(raw string) (fields.Field, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return fields.Field{}, fmt.Errorf("invalid field %q: want name:type[:required][:options]", raw)
	}
	field := fields.Field{
		Name: strings.TrimSpace(parts[0]),
		Type: fields.Type(strings.ToLower(strings.TrimSpace(parts[1]))),
	}
	if len(parts) > 2 {
		switch flag := strings.ToLower(strings.TrimSpace(parts[2])); flag {
		case "", "optional":
		case "required":
			field.Required = true
		default:
			return fields.Field{}, fmt.Errorf("invalid field %q: unknown flag %q", raw, flag)
		}
	}
	if len(parts) > 3 {
		for _, opt := range strings.Split(strings.Join(parts[3:], ":"), "|") {
			if opt = strings.TrimSpace(opt); opt != "" {
				field.Options = append(field.Options, opt)
			}
		}
	}
	return field, nil
}
