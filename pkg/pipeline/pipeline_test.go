package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fpicetti/stenfront/pkg/cache"
	stenerrors "github.com/fpicetti/stenfront/pkg/errors"
	"github.com/fpicetti/stenfront/pkg/model"
)

const heatModel = `
name = "heat"

[[dimensions]]
name = "time"
kind = "nonspace"

[[dimensions]]
name = "x"

[[dimensions]]
name = "y"

[[functions]]
name = "u"
axes = ["time", "x", "y"]

[[equations]]
expr = "u[time + 1, x, y] = u[time, x - 1, y] + u[time, x + 1, y]"
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"invalid", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Source: []byte(heatModel), Format: model.FormatTOML}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("valid options should pass: %v", err)
	}

	if !reflect.DeepEqual(opts.Formats, []string{FormatJSON}) {
		t.Errorf("Formats default = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger default not set")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"empty", Options{}},
		{"both path and source", Options{Path: "m.toml", Source: []byte("x"), Format: model.FormatTOML}},
		{"source without format", Options{Source: []byte("x")}},
		{"bad format", Options{Path: "m.toml", Formats: []string{"pdf"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	m, err := model.Load([]byte(heatModel), model.FormatTOML, "heat")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	report, err := Analyze(m)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.Model != "heat" {
		t.Errorf("Model = %q, want %q", report.Model, "heat")
	}
	if report.RunID == "" {
		t.Error("RunID not set")
	}
	if len(report.Equations) != 1 {
		t.Fatalf("Equations = %d, want 1", len(report.Equations))
	}

	eq := report.Equations[0]
	if got, want := eq.Ordering, []string{"time", "x", "y"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ordering = %v, want %v", got, want)
	}
	if got, want := eq.Stencil["x"], []int{-1, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Stencil[x] = %v, want %v", got, want)
	}
	if got, want := eq.Stencil["time"], []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Stencil[time] = %v, want %v", got, want)
	}

	// Precedence graph covers every ordered dimension
	ids := make(map[string]bool)
	for _, n := range report.Precedence.Nodes {
		ids[n.ID] = true
	}
	for _, want := range []string{"time", "x", "y"} {
		if !ids[want] {
			t.Errorf("precedence graph missing node %q", want)
		}
	}
}

func TestExecuteWithCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil)
	defer r.Close()

	opts := Options{
		Source:  []byte(heatModel),
		Format:  model.FormatTOML,
		Name:    "heat",
		Formats: []string{FormatJSON, FormatDOT},
	}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should not hit cache")
	}
	if len(first.Artifacts[FormatJSON]) == 0 {
		t.Error("json artifact missing")
	}
	if !strings.Contains(string(first.Artifacts[FormatDOT]), "digraph G") {
		t.Error("dot artifact missing digraph header")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !second.CacheHit {
		t.Error("second run should hit cache")
	}
	if second.Report.RunID != first.Report.RunID {
		t.Error("cached report should keep the original run ID")
	}

	// Refresh bypasses the cache and produces a new run
	third, err := r.Execute(ctx, Options{
		Source:  opts.Source,
		Format:  opts.Format,
		Name:    opts.Name,
		Refresh: true,
	})
	if err != nil {
		t.Fatalf("Execute (refresh): %v", err)
	}
	if third.CacheHit {
		t.Error("refresh run should not hit cache")
	}
	if third.Report.RunID == first.Report.RunID {
		t.Error("refresh run should mint a new run ID")
	}
}

func TestExecuteFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heat.toml")
	if err := os.WriteFile(path, []byte(heatModel), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewRunner(nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Model.Name != "heat" {
		t.Errorf("Model.Name = %q, want %q", result.Model.Name, "heat")
	}
	if result.Stats.EquationCount != 1 {
		t.Errorf("EquationCount = %d, want 1", result.Stats.EquationCount)
	}
}

func TestExecuteAnalysisError(t *testing.T) {
	// Conflicting access orders cannot be resolved into a total order.
	src := `
name = "cyclic"

[[dimensions]]
name = "x"

[[dimensions]]
name = "y"

[[functions]]
name = "f"
axes = ["x", "y"]

[[functions]]
name = "g"
axes = ["y", "x"]

[[equations]]
expr = "f[x, y] = g[y, x] + f[y, x]"
`
	r := NewRunner(nil, nil)
	defer r.Close()

	_, err := r.Execute(context.Background(), Options{
		Source: []byte(src),
		Format: model.FormatTOML,
		Name:   "cyclic",
	})
	if err == nil {
		t.Fatal("expected analysis error for conflicting relations")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error should mention the cycle: %v", err)
	}
	if !stenerrors.Is(err, stenerrors.ErrCodeAnalysisCycle) {
		t.Errorf("error code = %q, want %q", stenerrors.GetCode(err), stenerrors.ErrCodeAnalysisCycle)
	}
	// Equation numbering is 1-based, like the loader's messages.
	if !strings.Contains(err.Error(), "equation 1") {
		t.Errorf("error should name equation 1: %v", err)
	}
}
