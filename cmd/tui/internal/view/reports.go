package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/lobofinance/lobo/internal/report"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

const reportTimeout = 30 * time.Second

type reportState int

const (
	reportStateTimeframe reportState = iota
	reportStateOptions
	reportStateBuilding
	reportStateResult
)

type ReportModel struct {
	CommonModel
	reportService *report.Service

	state           reportState
	err             error
	timeframePicker TimeframePicker

	period string
	filter report.Filter

	form      *huh.Form
	kind      report.Kind
	onlyPaid  bool
	outputDir string

	spinner spinner.Model
	table   table.Model
	result  report.Report
	saved   string
}

func NewReportModel(scope tenant.Scope, svc *report.Service) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportModel{
		CommonModel:     CommonModel{Scope: scope},
		reportService:   svc,
		state:           reportStateTimeframe,
		timeframePicker: NewTimeframePicker(),
		kind:            report.KindDRE,
		spinner:         s,
	}
}

func (m ReportModel) Title() string { return "Relatórios" }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateResult:
		return "Esc: back to menu"
	case reportStateBuilding:
		return "Gerando..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.period = tfMsg.Label
		m.filter = report.Filter{From: tfMsg.Start, To: tfMsg.End}
		m.form = m.buildOptionsForm()
		m.state = reportStateOptions
		return m, m.form.Init()
	}

	switch m.state {
	case reportStateTimeframe:
		return m.updateTimeframe(msg)
	case reportStateOptions:
		return m.updateOptions(msg)
	case reportStateBuilding:
		return m.updateBuilding(msg)
	case reportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ReportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)
	return m, cmd
}

func (m ReportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = reportStateTimeframe
			m.timeframePicker.Reset()
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

	if kind, ok := m.form.Get("kind").(report.Kind); ok {
		m.kind = kind
	}

	m.onlyPaid = m.form.GetBool("paid")
	m.outputDir = m.form.GetString("path")

	if m.onlyPaid {
		m.filter.Status = new(transaction.StatusRealized)
	} else {
		m.filter.Status = nil
	}

	m.state = reportStateBuilding
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.buildCmd(m.kind, m.filter, m.outputDir))
}

func (m ReportModel) updateBuilding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(reportResultMsg); ok {
		m.state = reportStateResult
		m.err = result.err
		m.result = result.report
		m.saved = result.path
		m.table = newReportTable(result.report)
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ReportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ReportModel) buildOptionsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[report.Kind]().
				Key("kind").
				Title("Relatório").
				Options(
					huh.NewOption(report.KindDRE.Title(), report.KindDRE),
					huh.NewOption(report.KindCashDaily.Title(), report.KindCashDaily),
					huh.NewOption(report.KindCashMonthly.Title(), report.KindCashMonthly),
				).
				Value(&m.kind),

			huh.NewConfirm().
				Key("paid").
				Title("Somente realizados?").
				Affirmative("Sim").
				Negative("Não").
				Value(&m.onlyPaid),

			huh.NewInput().
				Key("path").
				Title("Salvar CSV em").
				Description("Deixe vazio para apenas visualizar").
				Placeholder("./relatorios").
				Value(&m.outputDir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func newReportTable(r report.Report) table.Model {
	first := "Categoria"
	if r.Kind != report.KindDRE {
		first = "Período"
	}

	columns := []table.Column{
		{Title: first, Width: 28},
		{Title: "Receitas", Width: 14},
		{Title: "Despesas", Width: 14},
		{Title: "Saldo", Width: 14},
	}

	if r.Kind != report.KindDRE {
		columns = append(columns, table.Column{Title: "Acumulado", Width: 14})
	}

	rows := make([]table.Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		cells := table.Row{
			row.Label,
			FormatAmount(row.Income),
			FormatAmount(row.Expense),
			FormatAmount(row.Net),
		}

		if r.Kind != report.KindDRE {
			cells = append(cells, FormatAmount(row.Running))
		}

		rows = append(rows, cells)
	}

	t := newTable(columns)
	t.SetRows(rows)

	return t
}

func (m ReportModel) View() string {
	switch m.state {
	case reportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case reportStateOptions:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case reportStateBuilding:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Gerando relatório...", m.spinner.View()),
		)

	case reportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ReportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			errorStyle.Render(fmt.Sprintf("Erro: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render(fmt.Sprintf("%s (%s)", m.result.Title, m.period))

	totals := fmt.Sprintf("Receitas: %s | Despesas: %s | Saldo: %s",
		incomeStyle.Render(FormatAmount(m.result.Totals.Income)),
		expenseStyle.Render(FormatAmount(m.result.Totals.Expense)),
		activeStyle(FormatAmount(m.result.Totals.Net)),
	)

	parts := []string{header, "", m.table.View(), "", totals}
	if m.saved != "" {
		parts = append(parts, "", successStyle.Render("CSV salvo em "+m.saved))
	}

	parts = append(parts, "", "(Esc to go back)")

	return lipgloss.NewStyle().Padding(1).Render(strings.Join(parts, "\n"))
}

type reportResultMsg struct {
	report report.Report
	path   string
	err    error
}

func (m ReportModel) buildCmd(kind report.Kind, filter report.Filter, dir string) tea.Cmd {
	scope := m.Scope

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		r, err := m.reportService.Build(ctx, scope, kind, filter)
		if err != nil {
			return reportResultMsg{err: err}
		}

		dir = strings.TrimSpace(dir)
		if dir == "" {
			return reportResultMsg{report: r}
		}

		path, err := saveCSV(dir, r)

		return reportResultMsg{report: r, path: path, err: err}
	}
}

func saveCSV(dir string, r report.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, report.Filename(r.Kind))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := report.WriteCSV(f, r); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	return path, nil
}
