// Package mock provides test doubles for diffexpand interfaces.
package mock

import (
	"io"

	"github.com/fwojciec/diffexpand"
)

// Compile-time interface verification.
var _ diffexpand.Parser = (*Parser)(nil)

// Parser is a mock implementation of diffexpand.Parser.
type Parser struct {
	ParseFn func(r io.Reader) (*diffexpand.Diff, error)
}

func (p *Parser) Parse(r io.Reader) (*diffexpand.Diff, error) {
	return p.ParseFn(r)
}
