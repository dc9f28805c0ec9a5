package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/floortime/internal/category"
)

const tileWidth = 22

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cdd6f4"))
	groupStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6adc8")).MarginTop(1)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#89B4FA")).Padding(0, 1).MarginTop(1)
)

func tileStyle(c category.Category, active bool) lipgloss.Style {
	color := lipgloss.Color(c.Color)
	style := lipgloss.NewStyle().
		Width(tileWidth).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color)
	if active {
		style = style.Border(lipgloss.ThickBorder()).BorderForeground(color).Foreground(color).Bold(true)
	}
	return style
}
