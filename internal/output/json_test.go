package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bgricker/xcshots/internal/report"
)

func TestJSONRenderer(t *testing.T) {
	rep := Report{
		Bundle:    "UITests.xcresult",
		DeviceTag: "iphone15",
		OutputDir: "screenshots",
		TestsRef:  "0~abc",
		Items: []report.ExportResult{
			{Index: 1, Name: "01-search", File: "iphone15-screenshot-01.png", Status: report.StatusExported},
		},
		Summary:  report.Summary{Attachments: 1, Exported: 1, DurationMS: 10},
		Warnings: []string{"note"},
	}

	buf := &bytes.Buffer{}
	if err := NewJSON(buf).Render(rep); err != nil {
		t.Fatalf("render json: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded.DeviceTag != "iphone15" || decoded.TestsRef != "0~abc" {
		t.Fatalf("header mismatch: %+v", decoded)
	}
	if len(decoded.Items) != 1 || decoded.Items[0].File != "iphone15-screenshot-01.png" {
		t.Fatalf("items mismatch: %+v", decoded.Items)
	}
	if len(decoded.Warnings) != 1 {
		t.Fatalf("expected warnings serialized")
	}
}

func TestJSONRendererEmptyItems(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewJSON(buf).Render(Report{Bundle: "b"}); err != nil {
		t.Fatalf("render json: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	items, ok := raw["items"].([]any)
	if !ok || len(items) != 0 {
		t.Fatalf("expected empty items array, got %#v", raw["items"])
	}
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(path, Report{Bundle: "b", DeviceTag: "ipad"}); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if decoded.DeviceTag != "ipad" {
		t.Fatalf("unexpected manifest %+v", decoded)
	}

	if err := WriteManifest(filepath.Join(t.TempDir(), "missing", "m.json"), Report{}); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
