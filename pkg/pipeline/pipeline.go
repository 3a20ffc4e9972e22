// Package pipeline provides the load → analyze → report pipeline shared by
// every entry point.
//
// This package stitches the model loader, the equation analyses, and the
// report serialization together so the CLI and library users get identical
// behavior and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse and resolve a model document (TOML or YAML)
//  2. Analyze: Dimension ordering and stencil extraction per equation
//  3. Report: Assemble the report and render requested output formats
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Path:    "heat.toml",
//	    Formats: []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	stenerrors "github.com/fpicetti/stenfront/pkg/errors"
	"github.com/fpicetti/stenfront/pkg/graph"
	"github.com/fpicetti/stenfront/pkg/model"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// analyzerVersion feeds cache keys; bump it when analysis semantics change
// so stale reports are not served.
const analyzerVersion = "1"

// Options contains all configuration for an analysis pipeline run.
type Options struct {
	// Path is a model file to load. Mutually exclusive with Source.
	Path string `json:"path,omitempty"`

	// Source holds an in-memory model document. Requires Format.
	Source []byte `json:"source,omitempty"`

	// Format is the document syntax for Source ("toml" or "yaml").
	Format model.Format `json:"format,omitempty"`

	// Name is the fallback model name for in-memory documents.
	Name string `json:"name,omitempty"`

	// Formats selects output artifacts. Defaults to ["json"].
	Formats []string `json:"formats,omitempty"`

	// Detailed includes kind and parent in rendered node labels.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses the cache and overwrites any existing entry.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the loaded model.
	Model *model.Model

	// Report holds the analysis results.
	Report *graph.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the report came from cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EquationCount  int
	DimensionCount int
	LoadTime       time.Duration
	AnalyzeTime    time.Duration
	RenderTime     time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return stenerrors.New(stenerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Path == "" && len(o.Source) == 0 {
		return stenerrors.New(stenerrors.ErrCodeInvalidInput, "path or source is required")
	}
	if o.Path != "" && len(o.Source) > 0 {
		return stenerrors.New(stenerrors.ErrCodeInvalidInput, "path and source are mutually exclusive")
	}
	if len(o.Source) > 0 && o.Format == "" {
		return stenerrors.New(stenerrors.ErrCodeInvalidInput, "format is required with source")
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}
