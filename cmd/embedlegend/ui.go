package main

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/Sudo-Ivan/embedlegend/pkg/legend"
)

// useColor controls whether styled output is enabled.
var useColor = true

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleCursor  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
)

// paint renders s with style unless color output is disabled.
func paint(style lipgloss.Style, s string) string {
	if !useColor {
		return s
	}
	return style.Render(s)
}

// rgb returns a foreground style for c.
func rgb(c color.RGBA) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(legend.Hex(c)))
}

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	fmt.Println(paint(styleIconSuccess, iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(format string, args ...any) {
	fmt.Println(paint(styleIconError, iconError) + " " + fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(paint(styleIconWarning, iconWarning) + " " + paint(styleWarning, msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	fmt.Println(paint(styleIconInfo, iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented detail line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + paint(styleDim, fmt.Sprintf(format, args...)))
}

// renderRow formats one legend row for the terminal.
func renderRow(row legend.Row) string {
	if !row.Interactive() {
		style := rgb(row.Foreground).Bold(true)
		if row.HasBackground {
			style = style.Background(lipgloss.Color(legend.Hex(row.Background)))
		}
		return paint(style, row.Text)
	}

	box := UncheckedBox
	if row.Checked {
		box = CheckedBox
	}
	text := rgb(row.Foreground)
	if row.Font.StrikeOut {
		text = text.Strikethrough(true)
	}
	return box + " " + paint(rgb(row.Icon), Swatch) + " " + paint(text, row.Text)
}
