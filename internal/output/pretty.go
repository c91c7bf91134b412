package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/bgricker/xcshots/internal/report"
)

// PrettyRenderer prints human readable progress lines as exports complete.
type PrettyRenderer struct {
	out    io.Writer
	styles styles
}

type styles struct {
	ok    lipgloss.Style
	fail  lipgloss.Style
	skip  lipgloss.Style
	warn  lipgloss.Style
	error lipgloss.Style
}

// NewPretty creates a PrettyRenderer writing to out. Colour is only emitted
// when out is a terminal.
func NewPretty(out io.Writer) *PrettyRenderer {
	r := lipgloss.NewRenderer(out)
	return &PrettyRenderer{
		out: out,
		styles: styles{
			ok:    r.NewStyle().Foreground(lipgloss.Color("2")),
			fail:  r.NewStyle().Foreground(lipgloss.Color("1")),
			skip:  r.NewStyle().Foreground(lipgloss.Color("8")),
			warn:  r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
			error: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

// Warning prints a non-fatal condition.
func (p *PrettyRenderer) Warning(msg string) error {
	_, err := fmt.Fprintf(p.out, "%s %s\n", p.styles.warn.Render("WARNING:"), msg)
	return err
}

// Error prints a fatal condition.
func (p *PrettyRenderer) Error(msg string) error {
	_, err := fmt.Fprintf(p.out, "%s %s\n", p.styles.error.Render("ERROR:"), msg)
	return err
}

// ExportDone prints one line per attachment.
func (p *PrettyRenderer) ExportDone(res report.ExportResult) error {
	var err error
	switch res.Status {
	case report.StatusExported:
		_, err = fmt.Fprintf(p.out, "  %s %s → %s\n", p.styles.ok.Render(statusGlyph(res.Status)), res.Name, res.File)
	case report.StatusFailed:
		_, err = fmt.Fprintf(p.out, "  %s %s: %s\n", p.styles.fail.Render(statusGlyph(res.Status)), res.Name, res.Error)
	default:
		_, err = fmt.Fprintf(p.out, "  %s %s → %s (dry run)\n", p.styles.skip.Render(statusGlyph(res.Status)), res.Name, res.File)
	}
	return err
}

// RenderSummary prints the closing totals.
func (p *PrettyRenderer) RenderSummary(summary report.Summary) error {
	_, err := fmt.Fprintf(p.out, "SUMMARY: %d exported, %d failed, %d skipped\n", summary.Exported, summary.Failed, summary.Skipped)
	return err
}

func statusGlyph(status string) string {
	switch status {
	case report.StatusExported:
		return "✓"
	case report.StatusFailed:
		return "✗"
	case report.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}
