package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors the terminal UI and the CLI table draw with
type Palette struct {
	Name string

	Base  lipgloss.Color // background behind filled buttons
	Text  lipgloss.Color
	Muted lipgloss.Color

	Primary  lipgloss.Color
	Tag      lipgloss.Color
	Deadline lipgloss.Color
	Done     lipgloss.Color
	Danger   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default palette
var TokyoNight = Palette{
	Name: "Tokyo Night",

	Base:  lipgloss.Color("#1a1b26"),
	Text:  lipgloss.Color("#c0caf5"),
	Muted: lipgloss.Color("#565f89"),

	Primary:  lipgloss.Color("#7aa2f7"),
	Tag:      lipgloss.Color("#bb9af7"),
	Deadline: lipgloss.Color("#7dcfff"),
	Done:     lipgloss.Color("#9ece6a"),
	Danger:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Current holds the active palette
var Current = TokyoNight

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds the pre-computed styles for the task views
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style
	Danger     lipgloss.Style

	// dropdown entries and the form's tag selector
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// bordered box for the tag dropdown and popups
	Panel lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonDanger  lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	TaskItem      lipgloss.Style
	TaskSelected  lipgloss.Style
	TaskTitle     lipgloss.Style
	TaskDeadline  lipgloss.Style
	TaskOverdue   lipgloss.Style
	TaskCompleted lipgloss.Style
	Tag           lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style

	StatusError lipgloss.Style
	StatusInfo  lipgloss.Style
}

// NewStyles creates styles based on the current palette
func NewStyles() *Styles {
	p := Current
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	row := lipgloss.NewStyle().Padding(0, 2)
	status := lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1)

	return &Styles{
		Title:      lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		TitleMuted: lipgloss.NewStyle().Foreground(p.Muted),
		Danger:     lipgloss.NewStyle().Foreground(p.Danger).Bold(true),

		ListItem:     row.Foreground(p.Text),
		ListSelected: row.Foreground(p.Primary).Background(p.Selection).Bold(true),

		Panel: box.BorderForeground(p.Border).Padding(0, 1),

		Button:        box.Foreground(p.Text).BorderForeground(p.Border).Padding(0, 2),
		ButtonFocused: box.Foreground(p.Primary).BorderForeground(p.BorderFocus).Padding(0, 2).Bold(true),
		ButtonDanger:  lipgloss.NewStyle().Foreground(p.Base).Background(p.Danger).Padding(0, 2).Bold(true),

		Input:        box.Foreground(p.Text).BorderForeground(p.Border).Padding(0, 1),
		InputFocused: box.Foreground(p.Text).BorderForeground(p.BorderFocus).Padding(0, 1),

		TaskItem:      row,
		TaskSelected:  row.Background(p.Selection).Bold(true),
		TaskTitle:     lipgloss.NewStyle().Foreground(p.Text),
		TaskDeadline:  lipgloss.NewStyle().Foreground(p.Deadline),
		TaskOverdue:   lipgloss.NewStyle().Foreground(p.Danger).Bold(true),
		TaskCompleted: lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true),
		Tag:           lipgloss.NewStyle().Foreground(p.Tag).MarginRight(1),

		Help:    lipgloss.NewStyle().Foreground(p.Muted).Padding(1, 2),
		HelpKey: lipgloss.NewStyle().Foreground(p.Primary).Bold(true),

		StatusError: status.Foreground(p.Danger),
		StatusInfo:  status.Foreground(p.Done),
	}
}

// Due picks the deadline style for a task row
func (s *Styles) Due(overdue bool) lipgloss.Style {
	if overdue {
		return s.TaskOverdue
	}
	return s.TaskDeadline
}

// Status renders the one-shot status line, or "" when there is nothing to say
func (s *Styles) Status(msg string, isErr bool) string {
	switch {
	case msg == "":
		return ""
	case isErr:
		return s.StatusError.Render(msg)
	default:
		return s.StatusInfo.Render(msg)
	}
}

// TableStyles are the cell styles for the non-interactive task table
type TableStyles struct {
	Border  lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Overdue lipgloss.Style
	Done    lipgloss.Style
}

// Table builds TableStyles on r so color output follows r's terminal
func Table(r *lipgloss.Renderer) TableStyles {
	p := Current
	cell := r.NewStyle().Padding(0, 1)
	return TableStyles{
		Border:  r.NewStyle().Foreground(p.Border),
		Header:  r.NewStyle().Foreground(p.Primary).Bold(true).Padding(0, 1),
		Cell:    cell,
		Overdue: cell.Foreground(p.Danger),
		Done:    cell.Foreground(p.Muted),
	}
}
