package mock

import "github.com/fwojciec/diffexpand"

// Compile-time interface verification.
var _ diffexpand.Clipboard = (*Clipboard)(nil)

// Clipboard is a mock implementation of diffexpand.Clipboard.
type Clipboard struct {
	CopyFn func(content string) error
}

func (c *Clipboard) Copy(content string) error {
	return c.CopyFn(content)
}
