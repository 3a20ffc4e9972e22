package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "heat.toml")
	p.OnLoadComplete(ctx, "heat.toml", 3, time.Second, nil)
	p.OnAnalyzeStart(ctx, "heat", 3)
	p.OnAnalyzeComplete(ctx, "heat", time.Second, nil)
	p.OnRenderStart(ctx, []string{"json"})
	p.OnRenderComplete(ctx, []string{"json"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "report")
	c.OnCacheMiss(ctx, "report")
	c.OnCacheSet(ctx, "report", 1024)
}

type testPipelineHooks struct {
	NoopPipelineHooks
	analyzeStarts int
}

func (h *testPipelineHooks) OnAnalyzeStart(ctx context.Context, model string, equationCount int) {
	h.analyzeStarts++
}

type testCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *testCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.hits++
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Events reach the custom hooks
	Pipeline().OnAnalyzeStart(context.Background(), "heat", 1)
	if customPipeline.analyzeStarts != 1 {
		t.Errorf("analyzeStarts = %d, want 1", customPipeline.analyzeStarts)
	}

	// Nil registration is ignored
	SetPipelineHooks(nil)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks(nil) should keep existing hooks")
	}

	// Reset restores defaults
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}
