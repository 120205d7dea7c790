package config

import (
	"context"
	"os"
)

type (
	resolverKey struct{}
	workDirKey  struct{}
)

// WithResolver attaches r to ctx.
func WithResolver(ctx context.Context, r *ConfigResolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// ResolverFromContext returns the attached resolver, or nil.
func ResolverFromContext(ctx context.Context) *ConfigResolver {
	r, _ := ctx.Value(resolverKey{}).(*ConfigResolver)
	return r
}

// WithWorkDir stores the directory commands operate on.
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// WorkDirFromContext returns the stored work directory, falling back to the
// process working directory.
func WorkDirFromContext(ctx context.Context) string {
	if dir, ok := ctx.Value(workDirKey{}).(string); ok && dir != "" {
		return dir
	}
	dir, _ := os.Getwd()
	return dir
}
