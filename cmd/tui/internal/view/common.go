package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lobofinance/lobo/internal/tenant"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Scope tenant.Scope
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
