package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/dashboard"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

const barWidth = 30

var monthNames = []string{"Todos", "Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

type DashboardModel struct {
	CommonModel
	service *dashboard.Service

	year      int
	allYears  bool
	month     int // 0 means every month
	statusIdx int

	result  dashboard.Result
	loading bool
	err     error
}

func NewDashboardModel(scope tenant.Scope, svc *dashboard.Service) DashboardModel {
	now := time.Now()

	return DashboardModel{
		CommonModel: CommonModel{Scope: scope},
		service:     svc,
		year:        now.Year(),
		month:       int(now.Month()),
		loading:     true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | ←/→: year | a: all years | m: month | s: status | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) filter() dashboard.Filter {
	var f dashboard.Filter

	if !m.allYears {
		f.Year = new(m.year)
	}

	if m.month > 0 {
		f.Month = new(m.month)
	}

	switch m.statusIdx {
	case 1:
		f.Status = new(transaction.StatusRealized)
	case 2:
		f.Status = new(transaction.StatusProjected)
	}

	return f
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.result = msg.result

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left":
			m.year--
			m.allYears = false
		case "right":
			m.year++
			m.allYears = false
		case "a":
			m.allYears = !m.allYears
		case "m":
			m.month = (m.month + 1) % len(monthNames)
		case "s":
			m.statusIdx = (m.statusIdx + 1) % len(statusLabels)
		case "r":
		default:
			return m, nil
		}

		m.loading = true

		return m, m.loadCmd()
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Carregando dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Erro: %v", m.err)))
	}

	year := strconv.Itoa(m.year)
	if m.allYears {
		year = "Todos"
	}

	header := fmt.Sprintf("Ano: %s | [m] Mês: %s | [s] Status: %s",
		activeStyle(year),
		activeStyle(monthNames[m.month]),
		activeStyle(statusLabels[m.statusIdx]),
	)

	s := m.result.Summary
	summary := fmt.Sprintf(
		"Receitas  %s\nTaxas     %s\nDespesas  %s\nLucro     %s\nMargem    %s%%",
		incomeStyle.Render(FormatAmount(s.Income)),
		expenseStyle.Render(FormatAmount(s.CardFees)),
		expenseStyle.Render(FormatAmount(s.Expense)),
		activeStyle(FormatAmount(s.Profit)),
		s.Margin.Mul(decimal.NewFromInt(100)).StringFixed(1),
	)

	box := lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		box.Render("Resumo\n\n"+summary),
		box.Render("Últimos lançamentos\n\n"+m.viewLast()),
	)

	categories := lipgloss.JoinHorizontal(lipgloss.Top,
		box.Render("Receitas por categoria\n\n"+viewBreakdown(m.result.Categories.Income, incomeStyle)),
		box.Render("Despesas por categoria\n\n"+viewBreakdown(m.result.Categories.Expense, expenseStyle)),
	)

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		top,
		box.Render("Evolução\n\n"+m.viewTrend()),
		categories,
	))
}

func (m DashboardModel) viewLast() string {
	if len(m.result.LastTransactions) == 0 {
		return "Nenhum lançamento"
	}

	lines := make([]string, 0, len(m.result.LastTransactions))
	for _, tx := range m.result.LastTransactions {
		amount := incomeStyle.Render(FormatAmount(tx.Amount))
		if tx.Type == transaction.TypeExpense {
			amount = expenseStyle.Render(FormatAmount(tx.Amount))
		}

		lines = append(lines, fmt.Sprintf("%-28s %s", truncate(tx.Description, 28), amount))
	}

	return strings.Join(lines, "\n")
}

// viewTrend draws paired income and expense bars scaled to the largest value
// of the series. Empty points are skipped to keep daily series readable.
func (m DashboardModel) viewTrend() string {
	t := m.result.Trend
	peak := maxOf(t.Income, t.Expense)

	var lines []string

	for i, label := range t.Labels {
		if t.Income[i].IsZero() && t.Expense[i].IsZero() {
			continue
		}

		lines = append(lines,
			fmt.Sprintf("%-4s %s %s", label, incomeStyle.Render(bar(t.Income[i], peak)), FormatAmount(t.Income[i])),
			fmt.Sprintf("%-4s %s %s", "", expenseStyle.Render(bar(t.Expense[i], peak)), FormatAmount(t.Expense[i])),
		)
	}

	if len(lines) == 0 {
		return "Sem movimento no período"
	}

	return strings.Join(lines, "\n")
}

func viewBreakdown(b dashboard.Breakdown, style lipgloss.Style) string {
	if len(b.Labels) == 0 {
		return "-"
	}

	peak := maxOf(b.Values)
	lines := make([]string, len(b.Labels))

	for i, label := range b.Labels {
		lines[i] = fmt.Sprintf("%-18s %s %s", truncate(label, 18), style.Render(bar(b.Values[i], peak)), FormatAmount(b.Values[i]))
	}

	return strings.Join(lines, "\n")
}

func bar(v, peak decimal.Decimal) string {
	if !peak.IsPositive() {
		return strings.Repeat(" ", barWidth)
	}

	n := int(v.Div(peak).Mul(decimal.NewFromInt(barWidth)).IntPart())

	return strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
}

func maxOf(series ...[]decimal.Decimal) decimal.Decimal {
	peak := decimal.Zero

	for _, values := range series {
		for _, v := range values {
			peak = decimal.Max(peak, v)
		}
	}

	return peak
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

type dashboardLoadedMsg struct {
	result dashboard.Result
	err    error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	scope := m.Scope
	filter := m.filter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.service.Load(ctx, scope, filter)

		return dashboardLoadedMsg{result: res, err: err}
	}
}
