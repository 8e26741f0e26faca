package main

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-dyncms"
	"github.com/spf13/cobra"
)

var slugCmd = &cobra.Command{
	Use:         "slug <name>",
	Short:       "Print the slug a content type name would receive",
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{"offline": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), dyncms.Slugify(strings.Join(args, " ")))
		return nil
	},
}
