package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fwojciec/diffexpand"
	"github.com/fwojciec/diffexpand/bubbletea"
	"github.com/fwojciec/diffexpand/clipboard"
	"github.com/fwojciec/diffexpand/fs"
	"github.com/fwojciec/diffexpand/git"
	"github.com/fwojciec/diffexpand/gitdiff"
	"github.com/fwojciec/diffexpand/lipgloss"
	"github.com/fwojciec/diffexpand/worddiff"
)

// ErrNoChanges is returned when the diff contains no changes to display.
var ErrNoChanges = errors.New("no changes to display")

// App encapsulates the application logic for testing.
type App struct {
	Stdin  io.Reader
	Parser diffexpand.Parser
	Source diffexpand.LineSource
	Viewer diffexpand.Viewer
}

// Run parses the diff, builds a controller over it, and displays it.
func (a *App) Run(ctx context.Context) error {
	diff, err := a.Parser.Parse(a.Stdin)
	if err != nil {
		return err
	}
	if len(diff.Files) == 0 {
		return ErrNoChanges
	}
	ctrl, err := diffexpand.NewController(diff, a.Source)
	if err != nil {
		return err
	}
	return a.Viewer.View(ctx, ctrl)
}

func main() {
	repo := flag.String("repo", ".", "repository root for resolving file paths")
	commit := flag.String("commit", "", "show the diff of a commit instead of reading stdin")
	light := flag.Bool("light", false, "use the light theme")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var stdin io.Reader
	var source diffexpand.LineSource

	if *commit != "" {
		// Commit mode: the diff comes from git show and context lines from
		// the commit's first parent, the pre-image of the diff.
		runner := git.NewRunner()
		diffText, err := runner.Show(ctx, *repo, *commit)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		stdin = strings.NewReader(diffText)
		source = git.NewFileSource(runner, *repo, *commit+"^")
	} else {
		stat, err := os.Stdin.Stat()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error checking stdin:", err)
			os.Exit(1)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: git diff | diffexpand [-repo DIR]")
			fmt.Fprintln(os.Stderr, "       diffexpand -commit REV [-repo DIR]")
			os.Exit(1)
		}
		stdin = os.Stdin
		source = fs.NewFileSource(*repo)
	}

	theme := lipgloss.DefaultTheme()
	if *light {
		theme = lipgloss.LightTheme()
	}

	viewerOpts := []bubbletea.ModelOption{
		bubbletea.WithTheme(theme),
		bubbletea.WithWordDiffer(worddiff.NewDiffer()),
	}
	if clip, err := clipboard.New(); err == nil {
		viewerOpts = append(viewerOpts, bubbletea.WithClipboard(clip))
	}

	app := &App{
		Stdin:  stdin,
		Parser: gitdiff.NewParser(),
		Source: source,
		Viewer: bubbletea.NewViewer(viewerOpts...),
	}

	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
