// Package clipboard provides clipboard operations via platform-specific commands.
package clipboard

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/fwojciec/diffexpand"
)

// Compile-time interface verification.
var _ diffexpand.Clipboard = (*Command)(nil)

// Command implements Clipboard by piping content to the first available
// platform clipboard tool.
type Command struct {
	name string
	args []string
}

// candidates are tried in order: macOS, then Wayland, then X11.
var candidates = []Command{
	{name: "pbcopy"},
	{name: "wl-copy"},
	{name: "xclip", args: []string{"-selection", "clipboard"}},
}

// New returns a Command bound to the first clipboard tool found on PATH, or
// an error if none is available.
func New() (*Command, error) {
	for _, c := range candidates {
		if _, err := exec.LookPath(c.name); err == nil {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("no clipboard command found (tried pbcopy, wl-copy, xclip)")
}

// Copy writes content to the system clipboard.
func (c *Command) Copy(content string) error {
	cmd := exec.Command(c.name, c.args...)
	cmd.Stdin = strings.NewReader(content)
	return cmd.Run()
}
