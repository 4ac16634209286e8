package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pt-autofill/internal/form"
	"pt-autofill/internal/ioformats"
	"pt-autofill/internal/models"
)

func newFillCommand(ctx *commandContext) *cobra.Command {
	var payloadPath string
	var pagePath string
	var mode string
	var outPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill an upload page from a publish payload or from its title",
		Example: `  ptfill fill --payload seed.json --page upload.html --out filled.html
  ptfill fill --mode title --page https://tracker.example/upload.php`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pagePath == "" {
				return errors.New("--page is required")
			}
			var payload *models.Payload
			switch mode {
			case form.ModeJSON:
				if payloadPath == "" {
					return errors.New("--payload is required in json mode")
				}
				p, err := ioformats.ReadPayload(payloadPath)
				if err != nil {
					return fmt.Errorf("read payload: %w", err)
				}
				payload = &p
			case form.ModeTitle:
			default:
				return fmt.Errorf("unknown --mode %q (want json or title)", mode)
			}

			svc, err := ctx.service()
			if err != nil {
				return err
			}
			doc, err := svc.LoadPage(cmd.Context(), pagePath)
			if err != nil {
				return err
			}
			res, filled, err := svc.Fill(doc, mode, payload)
			if err != nil {
				return err
			}

			summary := cmd.OutOrStdout()
			if outPath != "" {
				if outPath == "-" {
					summary = cmd.ErrOrStderr()
				}
				if err := writeFilled(cmd, outPath, filled); err != nil {
					return err
				}
			}
			if asJSON {
				enc := newIndentEncoder(summary)
				return enc.Encode(res)
			}
			fmt.Fprintln(summary, renderAssignments(res, shouldColorize(summary)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&payloadPath, "payload", "p", "", "publish JSON payload (- for stdin)")
	cmd.Flags().StringVar(&pagePath, "page", "", "upload page: saved HTML file or http(s) URL")
	cmd.Flags().StringVar(&mode, "mode", form.ModeJSON, "fill mode: json or title")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the filled page here (- for stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the fill result as JSON")
	return cmd
}

func writeFilled(cmd *cobra.Command, path string, filled *form.HTMLForm) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := filled.Render(w); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func renderAssignments(res models.FillResult, color bool) string {
	rows := make([][]string, 0, len(res.Assignments))
	for _, a := range res.Assignments {
		status := colorize("ok", ansiGreen, color)
		if !a.Applied {
			status = colorize("missing", ansiRed, color)
		}
		rows = append(rows, []string{a.Field, string(a.Kind), shorten(a.Value, 40), status})
	}
	return renderTable([]string{"Field", "Kind", "Value", "Status"}, rows, nil)
}

func shorten(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= limit {
		return codeLabel(s)
	}
	return string(r[:limit-1]) + "…"
}
