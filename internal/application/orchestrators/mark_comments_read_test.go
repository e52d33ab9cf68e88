package orchestrators

import (
	"context"
	"errors"
	"testing"
)

type mockCommentsReadGateway struct {
	calls   int
	failErr error
}

func (m *mockCommentsReadGateway) MarkCommentsRead(_ context.Context, _ string, _ int64) error {
	m.calls++
	return m.failErr
}

func TestExecuteMarkCommentsRead_IdempotentPerChild(t *testing.T) {
	gw := &mockCommentsReadGateway{}
	deps := MarkCommentsReadDeps{Gateway: gw, Guard: NewOnceGuard()}
	input := MarkCommentsReadInput{Token: "tok", ChildID: 7}

	// Repeated hovers on the same child issue exactly one call.
	ExecuteMarkCommentsRead(context.Background(), input, deps)
	ExecuteMarkCommentsRead(context.Background(), input, deps)
	ExecuteMarkCommentsRead(context.Background(), input, deps)
	if gw.calls != 1 {
		t.Errorf("gateway called %d times, want 1", gw.calls)
	}

	// A different child is a fresh selection.
	ExecuteMarkCommentsRead(context.Background(), MarkCommentsReadInput{Token: "tok", ChildID: 8}, deps)
	if gw.calls != 2 {
		t.Errorf("gateway called %d times after second child, want 2", gw.calls)
	}
}

func TestExecuteMarkCommentsRead_FailureAllowsRetry(t *testing.T) {
	gw := &mockCommentsReadGateway{failErr: errors.New("boom")}
	deps := MarkCommentsReadDeps{Gateway: gw, Guard: NewOnceGuard()}
	input := MarkCommentsReadInput{Token: "tok", ChildID: 7}

	// Failure is silent but releases the guard for the next hover.
	ExecuteMarkCommentsRead(context.Background(), input, deps)
	if gw.calls != 1 {
		t.Fatalf("gateway called %d times, want 1", gw.calls)
	}

	gw.failErr = nil
	ExecuteMarkCommentsRead(context.Background(), input, deps)
	if gw.calls != 2 {
		t.Errorf("failed mark-read not retried on next interaction")
	}

	// After a success the guard holds again.
	ExecuteMarkCommentsRead(context.Background(), input, deps)
	if gw.calls != 2 {
		t.Errorf("gateway called %d times after success, want 2", gw.calls)
	}
}

func TestExecuteMarkCommentsRead_NoChildIsNoop(t *testing.T) {
	gw := &mockCommentsReadGateway{}
	deps := MarkCommentsReadDeps{Gateway: gw, Guard: NewOnceGuard()}

	ExecuteMarkCommentsRead(context.Background(), MarkCommentsReadInput{Token: "tok"}, deps)
	if gw.calls != 0 {
		t.Errorf("gateway called %d times without a child, want 0", gw.calls)
	}
}
