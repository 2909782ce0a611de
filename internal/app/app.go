// Package app wires the router, screens and layout into a Bubble Tea
// program.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hanzidrill/internal/router"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/screens/home"
	"github.com/abhisek/hanzidrill/internal/screens/welcome"
	"github.com/abhisek/hanzidrill/internal/ui/layout"
)

// Options configures a TUI run.
type Options struct {
	Deps screen.Deps

	// Level is the initially selected HSK level on the home screen.
	Level int

	// Start, when set, is pushed on top of the home screen so the program
	// opens directly into a game.
	Start func(screen.Deps, int) screen.Screen
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	start  screen.Screen
	width  int
	height int
}

// NewAppModel creates an AppModel. Without a start screen the program
// opens on the welcome splash, which hands over to home.
func NewAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Deps, opts.Level)
	if opts.Start == nil {
		return AppModel{router: router.New(welcome.New(func() screen.Screen { return homeScreen }))}
	}
	return AppModel{
		router: router.New(homeScreen),
		start:  opts.Start(opts.Deps, homeScreen.Level()),
	}
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.start == nil {
		return cmd
	}
	start := m.start
	return tea.Sequence(cmd, func() tea.Msg { return router.PushScreenMsg{Screen: start} })
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := layout.ContentHeight(m.height)
	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	model := NewAppModel(opts)
	defer model.router.Close()

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if opts.Deps.Log != nil {
			opts.Deps.Log.WithError(err).Error("program exited with error")
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
