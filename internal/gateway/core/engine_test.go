package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeFlow struct {
	name  string
	steps []*Step
}

func (f *fakeFlow) Name() string   { return f.name }
func (f *fakeFlow) Steps() []*Step { return f.steps }

func testContext(input map[string]any) *FlowContext {
	return NewFlowContext(context.Background(), input, nil, "user-1", "")
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	var order []string
	flow := &fakeFlow{
		name: "two_steps",
		steps: []*Step{
			NewStep("first", func(ctx *FlowContext) error {
				order = append(order, "first")
				return nil
			}),
			NewStep("second", func(ctx *FlowContext) error {
				order = append(order, "second")
				return nil
			}),
		},
	}

	engine := NewEngine(flow)
	if err := engine.Run("two_steps", testContext(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("unexpected step order: %v", order)
	}
}

func TestRunStopsAtFailingStep(t *testing.T) {
	reached := false
	boom := errors.New("boom")
	flow := &fakeFlow{
		name: "failing",
		steps: []*Step{
			NewStep("explode", func(ctx *FlowContext) error { return boom }),
			NewStep("unreachable", func(ctx *FlowContext) error {
				reached = true
				return nil
			}),
		},
	}

	engine := NewEngine(flow)
	err := engine.Run("failing", testContext(nil))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped step error, got %v", err)
	}
	if !strings.Contains(err.Error(), "explode") {
		t.Errorf("expected failing step name in error, got %v", err)
	}
	if reached {
		t.Error("steps after a failure must not run")
	}
}

func TestRunUnknownFlow(t *testing.T) {
	engine := NewEngine()
	if err := engine.Run("ghost", testContext(nil)); err == nil {
		t.Fatal("expected error for unknown flow")
	}
}

func TestEngineNamesSorted(t *testing.T) {
	engine := NewEngine(
		&fakeFlow{name: "zebra"},
		&fakeFlow{name: "apple"},
	)
	names := engine.Names()
	if len(names) != 2 || names[0] != "apple" || names[1] != "zebra" {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestExtractHelpers(t *testing.T) {
	ctx := testContext(map[string]any{
		"listing_id":   "abc",
		"lease_months": float64(12), // JSON numbers decode as float64
		"blank":        "",
	})

	if got := ctx.ExtractString("listing_id"); got != "abc" {
		t.Errorf("ExtractString = %q", got)
	}
	if got := ctx.ExtractString("missing"); got != "" {
		t.Errorf("expected empty string for missing key, got %q", got)
	}
	if got, ok := ctx.ExtractInt("lease_months"); !ok || got != 12 {
		t.Errorf("ExtractInt = %d, %v", got, ok)
	}
	if _, ok := ctx.ExtractInt("listing_id"); ok {
		t.Error("ExtractInt must reject non-numeric values")
	}
	if _, err := ctx.RequireString("blank"); err == nil {
		t.Error("RequireString must reject empty values")
	}
	if _, err := ctx.RequireString("listing_id"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStashedString(t *testing.T) {
	ctx := testContext(nil)
	ctx.Process["listing_id"] = "abc"

	if got, err := ctx.StashedString("listing_id"); err != nil || got != "abc" {
		t.Errorf("StashedString = %q, %v", got, err)
	}
	if _, err := ctx.StashedString("never_set"); err == nil {
		t.Error("expected error for missing dependency")
	}
}

func TestRunWithRateLimitedConcurrencyReleasesOnPanic(t *testing.T) {
	func() {
		defer func() { _ = recover() }()
		RunWithRateLimitedConcurrency(func() { panic("boom") })
	}()

	// Every slot must be free again after the panic.
	for i := 0; i < MAX_CONCURRENT_API_CALLS; i++ {
		select {
		case RequestLimiter <- struct{}{}:
		default:
			t.Fatal("semaphore slot leaked after panic")
		}
	}
	for i := 0; i < MAX_CONCURRENT_API_CALLS; i++ {
		<-RequestLimiter
	}
}
