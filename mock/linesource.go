package mock

import (
	"context"

	"github.com/fwojciec/diffexpand"
)

// Compile-time interface verification.
var _ diffexpand.LineSource = (*LineSource)(nil)

// LineSource is a mock implementation of diffexpand.LineSource.
type LineSource struct {
	LinesFn func(ctx context.Context, path string, startLine, endLine int) ([]string, error)
}

func (s *LineSource) Lines(ctx context.Context, path string, startLine, endLine int) ([]string, error) {
	return s.LinesFn(ctx, path, startLine, endLine)
}
