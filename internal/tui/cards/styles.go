package cards

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Bold(true).
			Padding(0, 1)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#EEE"}).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#778899"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))

	previewTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#CCC"))

	imageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89b4fa")).
			Italic(true)

	// Border colours alternate with the visual row so neighbouring rows stay
	// distinguishable in tall columns.
	rowBorders = [2]lipgloss.Color{
		lipgloss.Color("#334455"),
		lipgloss.Color("#445566"),
	}

	focusedBorder = lipgloss.Color("#0AF")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0AF", Dark: "#0AF"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#778899")).
			Italic(true).
			Padding(1, 2)

	detailStyle = lipgloss.NewStyle().
			MarginLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#334455"))

	scrollTrack = metaStyle.Render("│")
	scrollThumb = statusStyle.Render("┃")
)
