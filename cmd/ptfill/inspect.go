package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var pagePath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the form fields of an upload page",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pagePath == "" {
				return errors.New("--page is required")
			}
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			doc, err := svc.LoadPage(cmd.Context(), pagePath)
			if err != nil {
				return err
			}
			page := svc.Inspect(doc)
			if asJSON {
				return writeJSON(cmd, page)
			}

			rows := make([][]string, 0, len(page.Fields))
			for _, f := range page.Fields {
				rows = append(rows, []string{f.Name, string(f.Kind), shorten(f.Value, 30), shorten(strings.Join(f.Options, ","), 40)})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (action %s)\n", codeLabel(page.Title), codeLabel(page.Action))
			fmt.Fprintln(w, renderTable([]string{"Name", "Kind", "Value", "Options"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&pagePath, "page", "", "upload page: saved HTML file or http(s) URL")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
