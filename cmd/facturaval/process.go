package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"facturaval/internal/app"
	"facturaval/internal/domain"
	"facturaval/internal/extractor/fragments"
	"facturaval/internal/repository/memory"
	"facturaval/internal/service"
	"facturaval/internal/storage/noop"
	"facturaval/internal/textreport"
)

// Output formats of the process command.
const (
	formatText = "text"
	formatJSON = "json"
	formatBoth = "both"
)

type processOptions struct {
	*rootOptions
	format      string
	output      string
	concurrency int
}

type processResult struct {
	path   string
	record *domain.Record
	err    error
}

func newProcessCmd(root *rootOptions) *cobra.Command {
	opts := &processOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "process FILE...",
		Short: "Validate documents and print or save the structured records",
		Long: `process builds one record per input. Images (jpg, jpeg, png) and PDFs go
through the configured Document AI processor; .json files are read as
pre-extracted fragments, either {"entities": [...]} or a raw processor
response.

JSON is saved only with --format json or an explicit --output. With one
input, --output names the JSON file; with several it names a directory.
Without --output, files are named factura_<timestamp>.json.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatBoth, "Output format: text, json or both")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "JSON output file (one input) or directory (several inputs)")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", 4, "Documents processed in parallel")
	return cmd
}

func runProcess(ctx context.Context, out io.Writer, opts *processOptions, paths []string) error {
	switch opts.format {
	case formatText, formatJSON, formatBoth:
	default:
		return fmt.Errorf("invalid --format %q: use text, json or both", opts.format)
	}
	if opts.concurrency < 1 {
		opts.concurrency = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := opts.setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	engine, err := app.NewEngine(&cfg.Engine)
	if err != nil {
		return err
	}
	extractor, err := app.NewExtractor(&cfg.Extractor, log)
	if err != nil {
		return err
	}
	// Records only live for this run.
	svc := service.NewRecordService(engine, extractor, memory.NewRecordRepo(0), noop.NewNoopStorage(log), &cfg.Upload, log)

	results := make([]processResult, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			rec, err := processFile(gCtx, svc, path)
			results[i] = processResult{path: path, record: rec, err: err}
			if err != nil {
				log.Warn("process: document failed", zap.String("file", path), zap.Error(err))
			}
			// One bad document must not cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	writeJSON := opts.format == formatJSON || opts.output != ""
	stamp := time.Now().Format("20060102_150405")

	var failed int
	for i, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(out, "%s: error: %v\n", res.path, res.err)
			continue
		}
		if opts.format != formatJSON {
			if err := textreport.Write(out, res.record); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
		if writeJSON {
			name := outputName(opts.output, stamp, res.path, i, len(paths))
			if err := saveJSON(name, &res.record.Data); err != nil {
				return err
			}
			fmt.Fprintf(out, "Datos guardados en: %s\n", name)
		}
	}

	ok := len(paths) - failed
	fmt.Fprintf(out, "%s de %s documentos procesados\n", humanize.Comma(int64(ok)), humanize.Comma(int64(len(paths))))
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed", failed)
	}
	return nil
}

func processFile(ctx context.Context, svc service.RecordService, path string) (*domain.Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		payload, err := fragments.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return svc.ProcessFragments(ctx, service.FragmentsInput{Source: payload.Source, Entities: payload.Entities})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return svc.ProcessUpload(ctx, service.UploadInput{
		FileName: filepath.Base(path),
		Size:     info.Size(),
		Body:     f,
	})
}

// outputName picks the JSON destination for the i-th of n inputs.
func outputName(output, stamp, path string, i, n int) string {
	if n == 1 {
		if output == "" {
			return fmt.Sprintf("factura_%s.json", stamp)
		}
		if !strings.HasSuffix(output, ".json") {
			return output + ".json"
		}
		return output
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := fmt.Sprintf("factura_%s_%02d_%s.json", stamp, i+1, stem)
	if output == "" {
		return name
	}
	return filepath.Join(output, name)
}

func saveJSON(name string, data *domain.StructuredRecord) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if err := os.WriteFile(name, append(body, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
