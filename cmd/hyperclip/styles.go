package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type styles struct {
	header lipgloss.Style
	key    lipgloss.Style
	value  lipgloss.Style
	dim    lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
	status lipgloss.Style
}

// ANSI colors: 1 red, 2 green, 3 yellow, 4 blue, 6 cyan, 7 white, 8 gray

func newStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)).Padding(0, 1),
		key:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)).Padding(0, 1),
		value:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7)).Padding(0, 1),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)).Padding(0, 1),
		warn:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		err:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		status: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)),
	}
}

var theme = newStyles()

// newTable returns a bordered table whose first column is highlighted as a
// key column.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.dim).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == 0:
				return theme.header
			case col == 0:
				return theme.key
			default:
				return theme.value
			}
		})
}
