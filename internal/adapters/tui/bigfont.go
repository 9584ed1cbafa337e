package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyphs draws each clock character three rows tall with half blocks.
// Digits are three cells wide, the colon one.
var glyphs = map[rune][3]string{
	'0': {"█▀█", "█ █", "▀▀▀"},
	'1': {"▀█ ", " █ ", "▀▀▀"},
	'2': {"▀▀█", "█▀▀", "▀▀▀"},
	'3': {"▀▀█", " ▀█", "▀▀▀"},
	'4': {"█ █", "▀▀█", "  ▀"},
	'5': {"█▀▀", "▀▀█", "▀▀▀"},
	'6': {"█▀▀", "█▀█", "▀▀▀"},
	'7': {"▀▀█", "  █", "  ▀"},
	'8': {"█▀█", "█▀█", "▀▀▀"},
	'9': {"█▀█", "▀▀█", "▀▀▀"},
	':': {"▄", "▄", " "},
}

// minBigClockWidth is the narrowest terminal that gets the large clock.
const minBigClockWidth = 30

// renderBigClock renders an MM:SS string in the large font, or as one bold
// line when the terminal is narrower than minBigClockWidth.
func renderBigClock(clock string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < minBigClockWidth {
		return style.Render(clock)
	}

	var rows [3][]string
	for _, ch := range clock {
		g, ok := glyphs[ch]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i] = append(rows[i], g[i])
		}
	}

	lines := make([]string, len(rows))
	for i, parts := range rows {
		lines[i] = style.Render(strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
