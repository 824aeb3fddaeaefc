package engine

import "context"

type outputIDKey struct{}

// WithOutputID returns a context whose charts are written under a name
// prefixed by id, so concurrent callers do not overwrite each other's files.
func WithOutputID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, outputIDKey{}, id)
}

// OutputID returns the output identifier carried by ctx, if any
func OutputID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(outputIDKey{}).(string)
	return id, ok && id != ""
}
