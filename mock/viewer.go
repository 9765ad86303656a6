package mock

import (
	"context"

	"github.com/fwojciec/diffexpand"
)

// Compile-time interface verification.
var _ diffexpand.Viewer = (*Viewer)(nil)

// Viewer is a mock implementation of diffexpand.Viewer.
type Viewer struct {
	ViewFn func(ctx context.Context, ctrl *diffexpand.Controller) error
}

func (v *Viewer) View(ctx context.Context, ctrl *diffexpand.Controller) error {
	return v.ViewFn(ctx, ctrl)
}
