package shell

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B5CF6")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

// Renderer writes responses to a terminal. With color disabled the output is
// plain text.
type Renderer struct {
	w     io.Writer
	color bool
}

func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Title prints a banner line.
func (r *Renderer) Title(text string) {
	fmt.Fprintln(r.w, r.style(titleStyle, text))
}

func (r *Renderer) Render(resp Response) {
	switch resp.Type {
	case TypeError:
		fmt.Fprintf(r.w, "%s %s\n\n", r.style(errorStyle, "Error:"), resp.Error)
	case TypeUpdate:
		fmt.Fprintf(r.w, "%s\n\n", r.style(successStyle, fmt.Sprintf("%d row(s) affected", resp.Affected)))
	case TypeInfo:
		fmt.Fprintf(r.w, "%s\n\n", r.style(successStyle, resp.Message))
	case TypeQuery:
		r.table(resp)
	}
}

func (r *Renderer) table(resp Response) {
	if len(resp.Rows) == 0 {
		fmt.Fprintf(r.w, "%s\n\n", r.style(mutedStyle, "(0 rows)"))
		return
	}

	// Styling is applied per line so escape codes never reach the tabwriter.
	var buf strings.Builder
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, strings.Join(resp.Columns, "\t"))
	fmt.Fprint(tw, "\n")
	fmt.Fprint(tw, strings.Repeat("-\t", len(resp.Columns)))
	fmt.Fprint(tw, "\n")
	for _, row := range resp.Rows {
		values := make([]string, len(resp.Columns))
		for i, col := range resp.Columns {
			values[i] = fmt.Sprintf("%v", row[col])
		}
		fmt.Fprint(tw, strings.Join(values, "\t"))
		fmt.Fprint(tw, "\n")
	}
	tw.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		if i == 0 {
			line = r.style(headerStyle, line)
		}
		fmt.Fprintln(r.w, line)
	}
	fmt.Fprintf(r.w, "\n%s\n\n", r.style(mutedStyle, fmt.Sprintf("(%d row(s))", len(resp.Rows))))
}
