package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/lobofinance/lobo/cmd/tui/internal/view"
	"github.com/lobofinance/lobo/internal/catalog"
	catalogStore "github.com/lobofinance/lobo/internal/catalog/store"
	"github.com/lobofinance/lobo/internal/config"
	"github.com/lobofinance/lobo/internal/dashboard"
	"github.com/lobofinance/lobo/internal/database"
	"github.com/lobofinance/lobo/internal/importer"
	"github.com/lobofinance/lobo/internal/report"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
	txStore "github.com/lobofinance/lobo/internal/transaction/store"
)

type model struct {
	scope            tenant.Scope
	txService        *transaction.Service
	catalogService   *catalog.Service
	dashboardService *dashboard.Service
	importService    *importer.Service
	reportService    *report.Service

	currentView View

	dashboardView view.DashboardModel
	importView    view.ImportModel
	listView      view.ListModel
	reportView    view.ReportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewImport    View = 2
	ViewList      View = 3
	ViewReport    View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.TUI.UserID == uuid.Nil || cfg.TUI.CompanyID == uuid.Nil {
		slog.Error("TUI_USER_ID and TUI_COMPANY_ID are required")
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	scope := tenant.Scope{UserID: cfg.TUI.UserID, CompanyID: cfg.TUI.CompanyID}

	txSvc := transaction.NewService(txStore.New(db))
	catSvc := catalog.NewService(catalogStore.New(db))
	dashSvc := dashboard.NewService(txSvc, catSvc)
	impSvc := importer.NewService(catSvc, txSvc)
	repSvc := report.NewService(txSvc, catSvc)

	return model{
		scope:            scope,
		txService:        txSvc,
		catalogService:   catSvc,
		dashboardService: dashSvc,
		importService:    impSvc,
		reportService:    repSvc,
		currentView:      ViewMenu,
		dashboardView:    view.NewDashboardModel(scope, dashSvc),
		importView:       view.NewImportModel(scope, impSvc),
		listView:         view.NewListModel(scope, txSvc, catSvc),
		reportView:       view.NewReportModel(scope, repSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.scope, m.dashboardService)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.scope, m.importService)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.scope, m.txService, m.catalogService)

				return m, m.listView.Init()
			case "4":
				m.currentView = ViewReport
				m.reportView = view.NewReportModel(m.scope, m.reportService)

				return m, m.reportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Lobo\n\n" +
				"1. Dashboard\n" +
				"2. Importar CSV\n" +
				"3. Lançamentos\n" +
				"4. Relatórios\n\n" +
				"q. Sair",
		)
	case ViewDashboard:
		current = m.dashboardView
	case ViewImport:
		current = m.importView
	case ViewList:
		current = m.listView
	case ViewReport:
		current = m.reportView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
