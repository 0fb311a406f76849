// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/board"
	"taskboard/internal/service"
)

// badgeWidth fits the longest label, "[In Progress]".
const badgeWidth = 13

// Badge colors: success green, warning yellow, neutral gray.
var badgeColors = map[board.Badge]lipgloss.Color{
	board.BadgeSuccess: lipgloss.Color("2"),
	board.BadgeWarning: lipgloss.Color("3"),
	board.BadgeNeutral: lipgloss.Color("8"),
}

// Formatter writes task rows to w, coloring badges when w is a terminal.
type Formatter struct {
	w        io.Writer
	renderer *lipgloss.Renderer
}

// New returns a Formatter for w.
func New(w io.Writer) *Formatter {
	return &Formatter{w: w, renderer: lipgloss.NewRenderer(w)}
}

// Badge renders the bracketed status label in its badge color, padded to
// a fixed width so titles line up.
func (f *Formatter) Badge(status service.Status) string {
	label := fmt.Sprintf("%-*s", badgeWidth, "["+displayStatus(status)+"]")
	style := f.renderer.NewStyle().Foreground(badgeColors[board.BadgeFor(status)])
	return style.Render(label)
}

// Task formats one task.
// Format: "{ID:>4}  {BADGE}  {TITLE}[  due {YYYY-MM-DD}]\n", then the
// description, if any, on its own line indented by 8 spaces.
func (f *Formatter) Task(task service.Task) {
	line := fmt.Sprintf("%4d  %s  %s", task.ID, f.Badge(task.Status), normalizeTitle(task.Title))
	if due := board.FormatDueDate(task.DueDate); due != "" {
		line += "  due " + due
	}
	fmt.Fprintln(f.w, line)

	if desc := normalizeText(task.Description); desc != "" {
		fmt.Fprintf(f.w, "        %s\n", desc)
	}
}

// Tasks formats every task in order.
func (f *Formatter) Tasks(tasks []service.Task) {
	for _, t := range tasks {
		f.Task(t)
	}
}

// Banner writes msg as an error line, or nothing when msg is empty.
func Banner(w io.Writer, msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintf(w, "error: %s\n", msg)
}

func displayStatus(s service.Status) string {
	if strings.TrimSpace(string(s)) == "" {
		return string(service.StatusPending)
	}
	return string(s)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeText(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// normalizeText replaces newlines with spaces and trims the result.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
