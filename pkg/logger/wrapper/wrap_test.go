package wrap

import (
	"context"
	"errors"
	"testing"
)

func TestError_KeepsChainAndContext(t *testing.T) {
	sentinel := errors.New("sentinel")

	ctx := WithAction(context.Background(), "first")
	err := Error(ctx, sentinel)

	ctx = WithAction(ctx, "second")
	err = Error(ctx, err)

	if !errors.Is(err, sentinel) {
		t.Fatalf("errors.Is(err, sentinel) = false")
	}
	if err.Error() != "sentinel" {
		t.Fatalf("Error() = %q, want %q", err.Error(), "sentinel")
	}

	lc, ok := ErrorCtx(context.Background(), err).Value(LogCtxKey).(LogCtx)
	if !ok {
		t.Fatal("log context not restored from error")
	}
	if lc.Action != "second" {
		t.Fatalf("Action = %q, want %q", lc.Action, "second")
	}
}

func TestError_Nil(t *testing.T) {
	if Error(context.Background(), nil) != nil {
		t.Fatal("Error(nil) must return nil")
	}
}

func TestWithLogCtx_Merges(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithLogCtx(ctx, LogCtx{Action: "login"})

	lc := ctx.Value(LogCtxKey).(LogCtx)
	if lc.RequestID != "req-1" || lc.Action != "login" {
		t.Fatalf("unexpected merged LogCtx: %+v", lc)
	}
}
