package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/fpicetti/stenfront/pkg/analysis"
	"github.com/fpicetti/stenfront/pkg/cache"
	stenerrors "github.com/fpicetti/stenfront/pkg/errors"
	"github.com/fpicetti/stenfront/pkg/graph"
	"github.com/fpicetti/stenfront/pkg/model"
	"github.com/fpicetti/stenfront/pkg/observability"
	"github.com/fpicetti/stenfront/pkg/order"
	"github.com/fpicetti/stenfront/pkg/render"
	"github.com/fpicetti/stenfront/pkg/stencil"
	"github.com/fpicetti/stenfront/pkg/symbolic"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete load → analyze → report pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Path)
	m, err := r.Load(opts)
	observability.Pipeline().OnLoadComplete(ctx, opts.Path, modelEquations(m), time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Model = m
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.EquationCount = len(m.Equations)
	result.Stats.DimensionCount = len(m.Dimensions())

	opts.Logger.Info("loaded model",
		"name", m.Name,
		"equations", len(m.Equations),
		"dimensions", len(m.Dimensions()),
		"duration", result.Stats.LoadTime)

	// Stage 2: Analyze
	analyzeStart := time.Now()
	observability.Pipeline().OnAnalyzeStart(ctx, m.Name, len(m.Equations))
	report, hit, err := r.AnalyzeWithCacheInfo(ctx, m, opts)
	observability.Pipeline().OnAnalyzeComplete(ctx, m.Name, time.Since(analyzeStart), err)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Report = report
	result.CacheHit = hit
	result.Stats.AnalyzeTime = time.Since(analyzeStart)

	opts.Logger.Info("analyzed equations",
		"equations", len(report.Equations),
		"cached", hit,
		"duration", result.Stats.AnalyzeTime)

	// Stage 3: Render requested artifacts
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	for _, format := range opts.Formats {
		data, err := r.renderFormat(report, format, opts)
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
	}
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, nil)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load resolves the model named by the options, from file or memory.
func (r *Runner) Load(opts Options) (*model.Model, error) {
	var m *model.Model
	var err error
	if opts.Path != "" {
		m, err = model.LoadFile(opts.Path)
	} else {
		m, err = model.Load(opts.Source, opts.Format, opts.Name)
	}
	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, stenerrors.Wrap(stenerrors.ErrCodeFileNotFound, err, "model file not found")
	default:
		return nil, stenerrors.Wrap(stenerrors.ErrCodeInvalidModel, err, "resolve model")
	}
}

// AnalyzeWithCacheInfo analyzes a model with caching and reports whether
// the result came from cache.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, m *model.Model, opts Options) (*graph.Report, bool, error) {
	r.applyLogger(&opts)

	cacheKey := cache.ReportKey(m.Source, cache.ReportKeyOpts{
		Version: analyzerVersion,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if report, err := graph.ReadReport(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "report")
				return report, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "report")
	}

	report, err := Analyze(m)
	if err != nil {
		return nil, false, err
	}

	if data, err := graph.MarshalReport(report); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLReport)
		observability.Cache().OnCacheSet(ctx, "report", len(data))
	}

	return report, false, nil
}

// Analyze runs the dimension sort and stencil extraction over every
// equation of m and assembles the report. It does not consult any cache.
func Analyze(m *model.Model) (*graph.Report, error) {
	report := &graph.Report{
		Model: m.Name,
		RunID: uuid.NewString(),
	}

	var allRelations [][]*symbolic.Dimension
	for i, eq := range m.Equations {
		ordering, err := analysis.DimensionSort(eq)
		if err != nil {
			return nil, analysisError(err, i+1, eq)
		}
		s := stencil.Extract(eq)
		report.Equations = append(report.Equations, graph.EquationResult(eq, ordering, s))

		allRelations = append(allRelations, analysis.Relations(eq)...)
		// Single-member relations register ordered dimensions that appear
		// in no access relation, such as literal-index data axes.
		for _, d := range ordering {
			allRelations = append(allRelations, []*symbolic.Dimension{d})
		}
	}
	report.Precedence = graph.FromDimensions(allRelations)

	return report, nil
}

// analysisError classifies a dimension-sort failure for the CLI boundary.
// Equations are numbered from 1, matching the loader's error messages.
func analysisError(err error, i int, eq *symbolic.Equation) error {
	code := stenerrors.ErrCodeInternal
	switch {
	case errors.Is(err, order.ErrCycle):
		code = stenerrors.ErrCodeAnalysisCycle
	case errors.Is(err, analysis.ErrMultipleDimensions):
		code = stenerrors.ErrCodeAnalysisAmbiguous
	}
	return stenerrors.Wrap(code, err, "equation %d (%s)", i, eq)
}

func (r *Runner) renderFormat(report *graph.Report, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalReport(report)
	case FormatDOT:
		return []byte(render.ToDOT(report.Precedence, render.Options{Detailed: opts.Detailed})), nil
	case FormatSVG:
		dot := render.ToDOT(report.Precedence, render.Options{Detailed: opts.Detailed})
		return render.SVG(dot)
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// modelEquations tolerates a nil model when reporting load failures.
func modelEquations(m *model.Model) int {
	if m == nil {
		return 0
	}
	return len(m.Equations)
}
