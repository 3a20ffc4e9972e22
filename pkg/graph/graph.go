package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Report Serialization API
// =============================================================================

// MarshalReport converts a report to indented JSON bytes.
// Graph nodes and edges are sorted at construction, so output is
// deterministic for a given analysis.
func MarshalReport(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeReportTo(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReportFile writes a report to a JSON file.
// The file is created with 0644 permissions.
func WriteReportFile(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeReportTo(r, f)
}

// WriteReport writes a report as JSON to an io.Writer.
// Use MarshalReport for in-memory serialization or WriteReportFile for files.
func WriteReport(r *Report, w io.Writer) error {
	return writeReportTo(r, w)
}

// ReadReportFile reads a JSON file and returns the decoded report.
func ReadReportFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readReportFrom(f)
}

// ReadReport decodes a JSON report from an io.Reader.
// Use ReadReportFile for files or pass bytes.NewReader for in-memory data.
func ReadReport(r io.Reader) (*Report, error) {
	return readReportFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeReportTo(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readReportFrom(r io.Reader) (*Report, error) {
	var data Report
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &data, nil
}
