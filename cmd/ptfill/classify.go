package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"pt-autofill/internal/ioformats"
	"pt-autofill/internal/models"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var mediainfoPath string
	var payloadPath string
	var title string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Derive resolution and codec codes from a mediainfo report",
		Example: `  mediainfo movie.mkv | ptfill classify --mediainfo -
  ptfill classify --payload seed.json
  ptfill classify --title Show.S01E01.2160p.WEB-DL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var metadata string
			switch {
			case payloadPath != "":
				p, err := ioformats.ReadPayload(payloadPath)
				if err != nil {
					return fmt.Errorf("read payload: %w", err)
				}
				metadata = p.MediaInfo
				if title == "" {
					title = p.Title
				}
			case mediainfoPath != "":
				text, err := ioformats.ReadText(mediainfoPath)
				if err != nil {
					return fmt.Errorf("read mediainfo: %w", err)
				}
				metadata = text
			case title == "":
				return errors.New("one of --mediainfo, --payload or --title is required")
			}

			svc, err := ctx.service()
			if err != nil {
				return err
			}
			class := svc.Classify(metadata, title)
			if asJSON {
				return writeJSON(cmd, class)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderClassification(class, title != "", shouldColorize(cmd.OutOrStdout())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&mediainfoPath, "mediainfo", "m", "", "mediainfo text report (- for stdin)")
	cmd.Flags().StringVarP(&payloadPath, "payload", "p", "", "publish JSON payload (- for stdin)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "torrent title for the title-based resolution")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func renderClassification(c models.Classification, withTitle, color bool) string {
	row := func(field string, code models.Code, label string) []string {
		value := codeLabel(code.String())
		if !code.Valid() {
			value = colorize(value, ansiYellow, color)
		}
		return []string{field, value, label}
	}
	rows := [][]string{
		row("resolution", c.Resolution, models.ResolutionLabel(c.Resolution)),
		row("video codec", c.VideoCodec, models.VideoLabel(c.VideoCodec)),
		row("audio codec", c.AudioCodec, models.AudioLabel(c.AudioCodec)),
	}
	if withTitle {
		rows = append(rows, row("title resolution", c.TitleResolution, models.ResolutionLabel(c.TitleResolution)))
	}
	out := renderTable([]string{"Field", "Code", "Meaning"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})

	if len(c.Evidence) > 0 {
		keys := make([]string, 0, len(c.Evidence))
		for k := range c.Evidence {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(out)
		b.WriteString("\nEvidence:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %-14s %s\n", k+":", c.Evidence[k])
		}
		out = strings.TrimRight(b.String(), "\n")
	}
	return out
}
