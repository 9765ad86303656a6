package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/diffexpand"
)

// hunkRef identifies a hunk within a diff by path and stable ID, so cursor
// position and expansion state survive merges that shift hunk indices.
type hunkRef struct {
	path string
	id   diffexpand.HunkID
}

// edgeState captures the expansion affordances for one hunk as reported by
// the controller at render time.
type edgeState struct {
	canBefore     bool
	canAfter      bool
	loadingBefore bool
	loadingAfter  bool
}

// renderConfig holds all rendering parameters for renderDiff.
type renderConfig struct {
	diff       *diffexpand.Diff
	styles     diffexpand.Styles
	renderer   *lipgloss.Renderer
	width      int
	wordDiffer diffexpand.WordDiffer

	edges        map[hunkRef]edgeState
	selected     hunkRef
	contextLines int
}

// minGutterWidth is the minimum width of each line number column in the gutter.
const minGutterWidth = 4

// renderDiff converts a Diff to a styled string, including expand-context
// affordance rows for hunk edges the controller reports as expandable.
// If renderer is nil, the default lipgloss renderer is used.
func renderDiff(cfg renderConfig) string {
	diff := cfg.diff
	styles := cfg.styles
	renderer := cfg.renderer
	width := cfg.width
	if diff == nil {
		return ""
	}

	gutterWidth := calculateGutterWidth(diff)

	fileHeaderStyle := styleFromColorPair(styles.FileHeader, renderer)
	hunkHeaderStyle := styleFromColorPair(styles.HunkHeader, renderer)
	addedStyle := styleFromColorPair(styles.Added, renderer)
	deletedStyle := styleFromColorPair(styles.Deleted, renderer)
	contextStyle := styleFromColorPair(styles.Context, renderer)
	lineNumStyle := styleFromColorPair(styles.LineNumber, renderer)
	addedGutterStyle := styleFromColorPair(styles.AddedGutter, renderer)
	deletedGutterStyle := styleFromColorPair(styles.DeletedGutter, renderer)
	addedHighlightStyle := styleFromColorPair(styles.AddedHighlight, renderer)
	deletedHighlightStyle := styleFromColorPair(styles.DeletedHighlight, renderer)
	expandHintStyle := styleFromColorPair(styles.ExpandHint, renderer)
	loadingStyle := styleFromColorPair(styles.Loading, renderer)

	var sb strings.Builder
	for _, file := range diff.Files {
		if !shouldRenderFile(file) {
			continue
		}

		path := displayPath(file)

		// File header with box-drawing fill and change statistics:
		// ── filename ─────────────────── +N -M ──
		added, deleted := file.Stats()
		stats := fmt.Sprintf("+%d -%d", added, deleted)
		middle := "── " + path + " "
		end := " " + stats + " ──"
		fillWidth := width - lipgloss.Width(middle) - lipgloss.Width(end)
		if fillWidth < 3 {
			fillWidth = 3
		}
		header := middle + strings.Repeat("─", fillWidth) + end
		sb.WriteString(fileHeaderStyle.Render(header))
		sb.WriteString("\n")

		if len(file.Hunks) == 0 {
			sb.WriteString(contextStyle.Render("(empty)"))
			sb.WriteString("\n")
			continue
		}

		for _, hunk := range file.Hunks {
			ref := hunkRef{path: file.Path(), id: hunk.ID}
			edges := cfg.edges[ref]

			if row, ok := affordanceRow(edges.canBefore, edges.loadingBefore, diffexpand.Before, cfg.contextLines, expandHintStyle, loadingStyle); ok {
				sb.WriteString(row)
				sb.WriteString("\n")
			}

			headerText := formatHunkHeader(hunk)
			if ref == cfg.selected {
				headerText = "▶ " + headerText
			} else {
				headerText = "  " + headerText
			}
			sb.WriteString(hunkHeaderStyle.Render(headerText))
			sb.WriteString("\n")

			// Word diff segments for paired delete/add lines
			lineSegments := computeLinePairSegments(hunk.Lines, cfg.wordDiffer)

			for i, line := range hunk.Lines {
				var gutterStyle lipgloss.Style
				var lineStyle lipgloss.Style
				var highlightStyle lipgloss.Style
				switch line.Type {
				case diffexpand.LineAdded:
					gutterStyle = addedGutterStyle
					lineStyle = addedStyle
					highlightStyle = addedHighlightStyle
				case diffexpand.LineDeleted:
					gutterStyle = deletedGutterStyle
					lineStyle = deletedStyle
					highlightStyle = deletedHighlightStyle
				default:
					gutterStyle = lineNumStyle
					lineStyle = contextStyle
				}
				sb.WriteString(formatGutter(line.OldLineNum, line.NewLineNum, gutterWidth, gutterStyle))

				// Padding space between gutter and code, styled with the
				// code line's background
				sb.WriteString(lineStyle.Render(" "))

				prefix := linePrefixFor(line.Type)
				content := ExpandTabs(line.Content, 0)
				fullLine := prefix + content

				var styledLine string
				if segments := lineSegments[i]; segments != nil {
					styledLine = renderLineWithSegments(prefix, segments, lineStyle, highlightStyle, width)
				} else {
					switch line.Type {
					case diffexpand.LineAdded, diffexpand.LineDeleted:
						styledLine = lineStyle.Render(padLine(fullLine, width))
					default:
						styledLine = lineStyle.Render(fullLine)
					}
				}
				sb.WriteString(styledLine)
				sb.WriteString("\n")
			}

			if row, ok := affordanceRow(edges.canAfter, edges.loadingAfter, diffexpand.After, cfg.contextLines, expandHintStyle, loadingStyle); ok {
				sb.WriteString(row)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// affordanceRow renders the expand-context row for one hunk edge, or reports
// false when the edge offers nothing to show.
func affordanceRow(can, loading bool, dir diffexpand.Direction, contextLines int, hintStyle, loadingStyle lipgloss.Style) (string, bool) {
	if loading {
		return loadingStyle.Render("  ⋯ loading context"), true
	}
	if !can {
		return "", false
	}
	arrow := "↑"
	where := "above"
	if dir == diffexpand.After {
		arrow = "↓"
		where = "below"
	}
	return hintStyle.Render(fmt.Sprintf("  %s expand %d lines %s", arrow, contextLines, where)), true
}

// computeLinePairSegments identifies paired delete/add lines and computes
// word-level diff segments. Returns a map from line index to segments; lines
// without word-level diffs are absent. Runs of consecutive deletes followed
// by consecutive adds are paired 1:1 in order.
func computeLinePairSegments(lines []diffexpand.Line, wordDiffer diffexpand.WordDiffer) map[int][]diffexpand.Segment {
	if wordDiffer == nil {
		return nil
	}

	result := make(map[int][]diffexpand.Segment)

	for i := 0; i < len(lines); i++ {
		if lines[i].Type != diffexpand.LineDeleted {
			continue
		}

		deleteStart := i
		deleteEnd := i
		for deleteEnd < len(lines) && lines[deleteEnd].Type == diffexpand.LineDeleted {
			deleteEnd++
		}

		if deleteEnd >= len(lines) || lines[deleteEnd].Type != diffexpand.LineAdded {
			i = deleteEnd - 1
			continue
		}

		addStart := deleteEnd
		addEnd := addStart
		for addEnd < len(lines) && lines[addEnd].Type == diffexpand.LineAdded {
			addEnd++
		}

		pairCount := min(deleteEnd-deleteStart, addEnd-addStart)
		for j := 0; j < pairCount; j++ {
			delIdx := deleteStart + j
			addIdx := addStart + j

			oldSegs, newSegs := wordDiffer.Diff(lines[delIdx].Content, lines[addIdx].Content)

			// Word-level highlighting is only useful when the pair shares
			// meaningful content.
			if hasSignificantUnchangedContent(oldSegs) && hasSignificantUnchangedContent(newSegs) {
				result[delIdx] = oldSegs
				result[addIdx] = newSegs
			}
		}

		i = addEnd - 1
	}

	return result
}

// hasSignificantUnchangedContent reports whether at least 30% of the
// segments' text is unchanged.
func hasSignificantUnchangedContent(segments []diffexpand.Segment) bool {
	if len(segments) == 0 {
		return false
	}

	var unchangedLen, totalLen int
	for _, seg := range segments {
		totalLen += len(seg.Text)
		if !seg.Changed {
			unchangedLen += len(seg.Text)
		}
	}

	if totalLen == 0 {
		return false
	}
	return float64(unchangedLen)/float64(totalLen) >= 0.30
}

// renderLineWithSegments renders a line with word-level diff highlighting.
// Unchanged segments use baseStyle, changed segments use highlightStyle.
func renderLineWithSegments(prefix string, segments []diffexpand.Segment, baseStyle, highlightStyle lipgloss.Style, width int) string {
	var sb strings.Builder

	sb.WriteString(baseStyle.Render(prefix))
	for _, seg := range segments {
		if seg.Changed {
			sb.WriteString(highlightStyle.Render(seg.Text))
		} else {
			sb.WriteString(baseStyle.Render(seg.Text))
		}
	}

	currentLen := lipgloss.Width(prefix)
	for _, seg := range segments {
		currentLen += lipgloss.Width(seg.Text)
	}
	if currentLen < width {
		sb.WriteString(baseStyle.Render(strings.Repeat(" ", width-currentLen)))
	}

	return sb.String()
}

// calculateGutterWidth determines the gutter width for a diff based on the
// maximum line number present in any hunk.
func calculateGutterWidth(diff *diffexpand.Diff) int {
	maxLineNum := 0
	for _, file := range diff.Files {
		for _, hunk := range file.Hunks {
			for _, line := range hunk.Lines {
				maxLineNum = max(maxLineNum, line.OldLineNum, line.NewLineNum)
			}
		}
	}
	return max(digitWidth(maxLineNum), minGutterWidth)
}

// formatGutter formats the gutter column with old and new line numbers.
// Missing numbers (zero) render as empty space; the color transition
// provides visual separation, no divider character.
func formatGutter(oldLineNum, newLineNum, width int, style lipgloss.Style) string {
	return style.Render(fmt.Sprintf("%s %s ", formatLineNum(oldLineNum, width), formatLineNum(newLineNum, width)))
}

// formatLineNum formats a line number for the gutter, right-aligned, empty
// for zero.
func formatLineNum(num, width int) string {
	if num == 0 {
		return fmt.Sprintf("%*s", width, "")
	}
	return fmt.Sprintf("%*d", width, num)
}

// styleFromColorPair creates a lipgloss style from a ColorPair.
// If renderer is nil, the default lipgloss renderer is used.
func styleFromColorPair(cp diffexpand.ColorPair, renderer *lipgloss.Renderer) lipgloss.Style {
	var style lipgloss.Style
	if renderer != nil {
		style = renderer.NewStyle()
	} else {
		style = lipgloss.NewStyle()
	}
	if cp.Foreground != "" {
		style = style.Foreground(lipgloss.Color(cp.Foreground))
	}
	if cp.Background != "" {
		style = style.Background(lipgloss.Color(cp.Background))
	}
	return style
}

// formatHunkHeader formats a hunk header in standard diff format.
func formatHunkHeader(hunk diffexpand.Hunk) string {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
	if hunk.Section != "" {
		header += " " + hunk.Section
	}
	return header
}

// linePrefixFor returns the diff prefix character for a line type.
func linePrefixFor(lineType diffexpand.LineType) string {
	switch lineType {
	case diffexpand.LineAdded:
		return "+"
	case diffexpand.LineDeleted:
		return "-"
	default:
		return " "
	}
}

// padLine pads a line with spaces to the specified display width.
// Uses lipgloss.Width() to correctly handle multi-byte characters.
func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth >= width {
		return line
	}
	return line + strings.Repeat(" ", width-lineWidth)
}

// shouldRenderFile reports whether the file appears in the view. Binary
// files are skipped; empty new/deleted files and renames are shown.
func shouldRenderFile(file diffexpand.FileDiff) bool {
	if file.IsBinary {
		return false
	}
	if len(file.Hunks) > 0 {
		return true
	}
	switch file.Operation {
	case diffexpand.FileAdded, diffexpand.FileDeleted, diffexpand.FileRenamed, diffexpand.FileCopied:
		return true
	}
	return false
}

// displayPath returns the display path for a file, with any "a/" or "b/"
// prefix stripped.
func displayPath(file diffexpand.FileDiff) string {
	path := file.NewPath
	if file.Operation == diffexpand.FileDeleted {
		path = file.OldPath
	}
	path = strings.TrimPrefix(path, "a/")
	path = strings.TrimPrefix(path, "b/")
	return path
}

// digitWidth returns the number of digits needed to display n.
func digitWidth(n int) int {
	if n <= 0 {
		return 1
	}
	width := 0
	for n > 0 {
		width++
		n /= 10
	}
	return width
}

// computePositions calculates the view line number where each hunk header
// starts, keyed by hunkRef, plus the file header positions in order. The
// layout must mirror renderDiff exactly, affordance rows included.
func computePositions(cfg renderConfig) (hunkPositions map[hunkRef]int, filePositions []int) {
	if cfg.diff == nil {
		return nil, nil
	}

	hunkPositions = make(map[hunkRef]int)
	lineNum := 0
	for _, file := range cfg.diff.Files {
		if !shouldRenderFile(file) {
			continue
		}

		filePositions = append(filePositions, lineNum)
		lineNum++ // file header

		if len(file.Hunks) == 0 {
			lineNum++ // "(empty)" indicator
			continue
		}

		for _, hunk := range file.Hunks {
			ref := hunkRef{path: file.Path(), id: hunk.ID}
			edges := cfg.edges[ref]
			if edges.canBefore || edges.loadingBefore {
				lineNum++
			}
			hunkPositions[ref] = lineNum
			lineNum++ // hunk header
			lineNum += len(hunk.Lines)
			if edges.canAfter || edges.loadingAfter {
				lineNum++
			}
		}
	}
	return hunkPositions, filePositions
}
