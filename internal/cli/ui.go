package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/reflow"
)

var (
	colorCyan = lipgloss.Color("36")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")
)

// gridStyles are bound to one output's renderer so color detection follows
// the writer, not the process's stdout.
type gridStyles struct {
	title lipgloss.Style
	cell  lipgloss.Style
	empty lipgloss.Style
}

func newGridStyles(w io.Writer) gridStyles {
	r := lipgloss.NewRenderer(w)
	return gridStyles{
		title: r.NewStyle().Bold(true).Foreground(colorCyan),
		cell: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Width(5).
			Align(lipgloss.Center),
		empty: r.NewStyle().Foreground(colorDim),
	}
}

// renderGrid draws the grid's slots row by row, each cell labelled with the
// 1-based storage index of the tile resting there.
func renderGrid(w io.Writer, g *reflow.Grid) string {
	st := newGridStyles(w)
	order := g.Order()
	ordering := order.Ordering()
	if len(ordering) == 0 {
		return st.empty.Render("(no tiles)")
	}

	cols := order.Columns()
	var rows []string
	for start := 0; start < len(ordering); start += cols {
		end := min(start+cols, len(ordering))
		cells := make([]string, 0, end-start)
		for _, idx := range ordering[start:end] {
			cells = append(cells, st.cell.Render(strconv.Itoa(idx+1)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	var b strings.Builder
	b.WriteString(st.title.Render("grid"))
	b.WriteByte('\n')
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return b.String()
}
