package wrap

import (
	"context"
)

// Error wraps an error with the current LogCtx from the context.
// Re-wrapping an already wrapped error keeps the chain and refreshes the LogCtx.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	c := LogCtx{}
	if x, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		c = x
	}
	return &errorWithLogCtx{
		err:    err,
		logCtx: c,
	}
}
