package recovery

import "github.com/charmbracelet/lipgloss"

// Color palette for the recovery screen. Plain white text on a black fill,
// with the selected option picked out in the warning gold.
var (
	screenBlack = lipgloss.Color("#000000")
	plainWhite  = lipgloss.Color("#F9FAFB")
	selectGold  = lipgloss.Color("#949108")
)

var (
	warningStyle = lipgloss.NewStyle().
			Foreground(plainWhite).
			Align(lipgloss.Center)

	optionStyle = lipgloss.NewStyle().
			Foreground(plainWhite).
			Padding(0, 4)

	selectedOptionStyle = lipgloss.NewStyle().
				Foreground(selectGold).
				Bold(true).
				Padding(0, 4)

	screenStyle = lipgloss.NewStyle().
			Background(screenBlack)
)
