package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/waste-estimator/constants"
	"github.com/joseph-ayodele/waste-estimator/internal/common"
	"github.com/joseph-ayodele/waste-estimator/internal/core"
	"github.com/joseph-ayodele/waste-estimator/internal/export"
	"github.com/joseph-ayodele/waste-estimator/internal/server"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var xlsxPath, pdfPath string
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Estimate waste for a .pdf or .txt file and print the JSON result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, proc, _, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			ctx := common.WithRequestID(cmd.Context(), uuid.NewString())
			var res core.Result
			switch constants.MapExtToFormat(filepath.Ext(path)) {
			case constants.PDF:
				res, err = proc.ProcessDocument(ctx, data)
				if err != nil {
					return fmt.Errorf("process %s: %w", path, err)
				}
			case constants.TEXT:
				res = proc.ProcessText(string(data))
			default:
				return fmt.Errorf("unsupported file type %q (want .pdf or .txt)", filepath.Ext(path))
			}

			exporter := export.NewService(logger)
			if xlsxPath != "" {
				out, err := exporter.ExportXLSX(res.Summary, res.Items)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, out, 0o644); err != nil {
					return err
				}
			}
			if pdfPath != "" {
				out, err := exporter.ExportPDF(res.Summary)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, out, 0o644); err != nil {
					return err
				}
			}

			payload := server.NewEstimateResponse(common.RequestIDFromContext(ctx), filepath.Base(path), res, cfg.Server.PreviewChars)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write an XLSX workbook to this path")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also write a PDF report to this path")
	return cmd
}
