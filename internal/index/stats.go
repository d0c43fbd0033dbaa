package index

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Align lays out name/value rows in borderless, left aligned columns. The
// first row goes in as the header: without one the table drops its last row.
func Align(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().PaddingRight(1)
			}
			return lipgloss.NewStyle()
		}).
		Headers(rows[0]...).
		Rows(rows[1:]...).
		String()
}

type HashStats struct {
	TotalSlots int
	UsedSlots  int
	EmptySlots int
	LoadFactor float64
	// Tombstones is the part of EmptySlots that was used before.
	Tombstones int
}

func (s HashStats) String() string {
	report := [][]string{
		{"TotalSlots", fmt.Sprintf("%d", s.TotalSlots)},
		{"UsedSlots", fmt.Sprintf("%d", s.UsedSlots)},
		{"EmptySlots", fmt.Sprintf("%d", s.EmptySlots)},
		{"Tombstones", fmt.Sprintf("%d", s.Tombstones)},
		{"LoadFactor", fmt.Sprintf("%.3f", s.LoadFactor)},
	}
	return Align(report)
}

type TreeStats struct {
	NodeCount   int
	RecordCount int
	UniqueKeys  int
	MaxDepth    int
}

func (s TreeStats) String() string {
	report := [][]string{
		{"NodeCount", fmt.Sprintf("%d", s.NodeCount)},
		{"RecordCount", fmt.Sprintf("%d", s.RecordCount)},
		{"UniqueKeys", fmt.Sprintf("%d", s.UniqueKeys)},
		{"MaxDepth", fmt.Sprintf("%d", s.MaxDepth)},
	}
	if s.UniqueKeys > 0 {
		report = append(report, []string{"RecordsPerKey", fmt.Sprintf("%.2f", float64(s.RecordCount)/float64(s.UniqueKeys))})
	}
	return Align(report)
}
