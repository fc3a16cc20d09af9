package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/report"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
)

var (
	statusLabels = []string{"Todos", "Realizado", "Projetado"}
	dateLabels   = []string{"Todo o período", "Este mês", "Mês passado"}
)

type ListModel struct {
	CommonModel
	txService      *transaction.Service
	catalogService *catalog.Service

	state      listState
	table      table.Model
	txs        []*transaction.Transaction
	categories map[uuid.UUID]string
	form       *huh.Form

	// Filter cycling
	statusFilterIdx int
	dateFilterIdx   int

	filter  transaction.ListFilter
	now     func() time.Time
	loading bool
	err     error
	status  string

	// Form bindings
	formDesc string
	formPaid bool
}

func NewListModel(scope tenant.Scope, txSvc *transaction.Service, catSvc *catalog.Service) ListModel {
	t := newTable([]table.Column{
		{Title: "Data", Width: 12},
		{Title: "Tipo", Width: 8},
		{Title: "Status", Width: 10},
		{Title: "Valor", Width: 14},
		{Title: "Descrição", Width: 36},
		{Title: "Categoria", Width: 20},
	})

	return ListModel{
		CommonModel:    CommonModel{Scope: scope},
		txService:      txSvc,
		catalogService: catSvc,
		table:          t,
		now:            time.Now,
	}
}

func (m ListModel) Title() string { return "Lançamentos" }
func (m ListModel) ShortHelp() string {
	if m.state == listStateEdit {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | e: edit | s: status filter | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.txs = msg.txs
		m.categories = msg.categories
		m.status = ""
		m.refreshTable()
		return m, nil

	case listSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Erro ao salvar: %v", msg.err)
		}
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "e":
			return m.enterEditMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusLabels)
			m.applyFilter()
			return m, m.loadTxsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateLabels)
			m.applyFilter()
			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return m, nil
	}

	tx := m.txs[idx]
	m.formDesc = tx.Description
	m.formPaid = tx.Paid

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Descrição").
				Value(&m.formDesc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),

			huh.NewConfirm().
				Key("paid").
				Title("Realizado?").
				Affirmative("Sim").
				Negative("Não").
				Value(&m.formPaid),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Carregando lançamentos...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Erro: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filtro: [s] Status: %s | [d] Período: %s",
		activeStyle(statusLabels[m.statusFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Editar lançamento\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) applyFilter() {
	switch m.statusFilterIdx {
	case 1:
		m.filter.Status = new(transaction.StatusRealized)
	case 2:
		m.filter.Status = new(transaction.StatusProjected)
	default:
		m.filter.Status = nil
	}

	m.filter.StartDate, m.filter.EndDate = nil, nil

	var preset report.Preset

	switch m.dateFilterIdx {
	case 1:
		preset = report.PresetThisMonth
	case 2:
		preset = report.PresetLastMonth
	default:
		return
	}

	start, end, err := report.Period(preset, m.now(), "", "")
	if err != nil {
		m.status = err.Error()
		return
	}

	m.filter.StartDate, m.filter.EndDate = start, end
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		category := ""
		if tx.CategoryID != nil {
			category = m.categories[*tx.CategoryID]
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			typeLabel(tx.Type),
			statusLabel(tx.Status()),
			FormatAmount(tx.Amount),
			tx.Description,
			category,
		})
	}
	m.table.SetRows(rows)
}

func typeLabel(t transaction.Type) string {
	if t == transaction.TypeIncome {
		return "Receita"
	}

	return "Despesa"
}

func statusLabel(s transaction.Status) string {
	if s == transaction.StatusRealized {
		return "Realizado"
	}

	return "Projetado"
}

// Messages

type loadListMsg struct {
	txs        []*transaction.Transaction
	categories map[uuid.UUID]string
	err        error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	scope := m.Scope
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		snap, err := m.catalogService.Snapshot(ctx, scope)
		if err != nil {
			return loadListMsg{err: err}
		}

		txs, err := m.txService.List(ctx, scope, filter)
		return loadListMsg{txs: txs, categories: snap.CategoryNames(), err: err}
	}
}

type listSaveMsg struct {
	err error
}

func (m ListModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	scope := m.Scope
	id := m.txs[idx].ID
	params := transaction.UpdateParams{
		Description: new(m.form.GetString("description")),
		Paid:        new(m.form.GetBool("paid")),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Update(ctx, scope, id, params)
		return listSaveMsg{err: err}
	}
}
