package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bgricker/xcshots/internal/report"
)

// JSONRenderer emits structured run data.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Report captures JSON output schema.
type Report struct {
	Bundle    string                `json:"bundle"`
	DeviceTag string                `json:"device_tag"`
	OutputDir string                `json:"output_dir"`
	TestsRef  string                `json:"tests_ref,omitempty"`
	Items     []report.ExportResult `json:"items"`
	Summary   report.Summary        `json:"summary"`
	Warnings  []string              `json:"warnings,omitempty"`
}

// Render encodes the report as JSON.
func (j *JSONRenderer) Render(rep Report) error {
	if rep.Items == nil {
		rep.Items = []report.ExportResult{}
	}
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteManifest stores the report as a JSON file at path.
func WriteManifest(path string, rep Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest %q: %w", path, err)
	}
	if err := NewJSON(f).Render(rep); err != nil {
		f.Close()
		return fmt.Errorf("write manifest %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close manifest %q: %w", path, err)
	}
	return nil
}
