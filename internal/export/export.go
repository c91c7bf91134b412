// Package export writes resolved attachments to numbered PNG files.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bgricker/xcshots/internal/report"
	"github.com/bgricker/xcshots/internal/resolver"
)

// Writer exports the payload behind ref to outPath.
type Writer interface {
	Export(ctx context.Context, ref, outPath string) error
}

// Progress receives each result as soon as it is known.
type Progress interface {
	ExportDone(result report.ExportResult) error
}

// Item is one planned export.
type Item struct {
	Index      int
	Attachment resolver.Attachment
	File       string
	Path       string
}

// FileName returns the output file name for the 1-based index.
func FileName(deviceTag string, index int) string {
	return fmt.Sprintf("%s-screenshot-%02d.png", deviceTag, index)
}

// Plan sorts attachments by name and assigns output files. Numbering depends
// only on the names; attachments with equal names keep their input order.
func Plan(attachments []resolver.Attachment, deviceTag, outputDir string) []Item {
	sorted := append([]resolver.Attachment(nil), attachments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	items := make([]Item, 0, len(sorted))
	for i, att := range sorted {
		file := FileName(deviceTag, i+1)
		items = append(items, Item{
			Index:      i + 1,
			Attachment: att,
			File:       file,
			Path:       filepath.Join(outputDir, file),
		})
	}
	return items
}

// Options configure how the exporter runs.
type Options struct {
	OutputDir string
	DryRun    bool
	Progress  Progress
	Now       func() time.Time
	Logger    *slog.Logger
}

// Exporter exports planned items sequentially.
type Exporter struct {
	w    Writer
	opts Options
}

// New creates an exporter writing through w.
func New(w Writer, opts Options) *Exporter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{w: w, opts: opts}
}

// Run exports every item. A failed item is recorded and the rest continue;
// the returned error is reserved for an output directory that cannot be
// created or a progress writer that fails.
func (e *Exporter) Run(ctx context.Context, items []Item) ([]report.ExportResult, report.Summary, error) {
	summary := report.Summary{Attachments: len(items)}
	results := make([]report.ExportResult, 0, len(items))

	if !e.opts.DryRun {
		if err := os.MkdirAll(e.opts.OutputDir, 0o755); err != nil {
			return nil, summary, fmt.Errorf("create output directory %q: %w", e.opts.OutputDir, err)
		}
	}

	for _, item := range items {
		result := report.ExportResult{
			Index:      item.Index,
			Name:       item.Attachment.Name,
			Test:       item.Attachment.Test,
			PayloadRef: item.Attachment.PayloadRef,
			File:       item.File,
			Path:       item.Path,
			DryRun:     e.opts.DryRun,
		}

		if e.opts.DryRun {
			result.Status = report.StatusSkipped
			summary.Skipped++
		} else {
			start := e.opts.Now()
			err := e.w.Export(ctx, item.Attachment.PayloadRef, item.Path)
			result.Duration = e.opts.Now().Sub(start)
			result.DurationMS = result.Duration.Milliseconds()

			if err != nil {
				result.Status = report.StatusFailed
				result.Error = err.Error()
				summary.Failed++
				e.opts.Logger.Debug("export failed", "attachment", item.Attachment.Name, "ref", item.Attachment.PayloadRef, "error", err)
			} else {
				result.Status = report.StatusExported
				summary.Exported++
			}
			summary.Duration += result.Duration
		}

		results = append(results, result)
		if e.opts.Progress != nil {
			if err := e.opts.Progress.ExportDone(result); err != nil {
				return results, summary, err
			}
		}
	}

	summary.DurationMS = summary.Duration.Milliseconds()
	return results, summary, nil
}
