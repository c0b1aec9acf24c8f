package logging

import (
	"context"
	"slices"
)

type ctxKey struct{}

// ContextWith returns a child of ctx carrying key/value pairs. Every Logger
// adds them, ahead of the call's own pairs, to records logged with that ctx.
func ContextWith(ctx context.Context, args ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, withContext(ctx, args))
}

// withContext prepends the pairs carried by ctx to args.
func withContext(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	carried, _ := ctx.Value(ctxKey{}).([]any)
	if len(carried) == 0 {
		return args
	}
	return append(slices.Clip(carried), args...)
}
