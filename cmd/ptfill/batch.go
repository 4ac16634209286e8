package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pt-autofill/internal/ioformats"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var in string
	var out string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify an NDJSON stream of publish payloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return errors.New("missing --input")
			}
			items, err := ioformats.ReadPayloads(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = cfg.Server.Concurrency
			}
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			results := svc.ClassifyBatch(cmd.Context(), items, concurrency)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			return ioformats.WriteNDJSON(w, results)
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", "", "NDJSON payload file (- for stdin)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output NDJSON file (default stdout)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 10, "worker concurrency")
	return cmd
}
