package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lobofinance/lobo/internal/importer"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateChecking
	importStateReview
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	path       string

	result  importer.Result
	preview list.Model

	status string
	err    error
}

func NewImportModel(scope tenant.Scope, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		CommonModel:   CommonModel{Scope: scope},
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Importar CSV" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateReview && m.result.Valid() {
		return "Enter: importar | Esc: cancelar"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateReview {
			return m.updateReview(msg)
		}

	case checkResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Erro: %v", msg.err)

			return m, nil
		}

		m.result = msg.result
		m.state = importStateReview
		m.preview = newPreviewList(msg.result)

		return m, nil

	case commitResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Erro: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("%d lançamentos importados.", msg.count)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStateChecking
		m.status = fmt.Sprintf("Validando %s...", path)

		return m, m.checkCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateReview, importStateResult:
		m.state = importStateFilePick
		m.result = importer.Result{}
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter && m.result.Valid() {
		m.state = importStateChecking
		m.status = fmt.Sprintf("Importando %d lançamentos...", len(m.result.Items))

		return m, m.commitCmd(m.path)
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)

	return m, cmd
}

func newPreviewList(res importer.Result) list.Model {
	var (
		items []list.Item
		title string
	)

	switch {
	case len(res.Errors) > 0:
		title = fmt.Sprintf("%d erros encontrados", len(res.Errors))
		for _, e := range res.Errors {
			items = append(items, previewItem{text: e, failed: true})
		}
	case len(res.Items) == 0:
		title = "Nenhuma linha para importar"
	default:
		title = fmt.Sprintf("%d lançamentos prontos para importar", len(res.Items))
		for _, d := range res.Items {
			items = append(items, previewItem{draft: d})
		}
	}

	l := list.New(items, previewDelegate{}, 80, 20)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Selecione o arquivo CSV:\n\n" + m.filePicker.View(),
		)
	case importStateChecking:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateReview:
		return lipgloss.NewStyle().Padding(1).Render(m.preview.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
}

// Messages

type checkResultMsg struct {
	result importer.Result
	err    error
}

type commitResultMsg struct {
	count int
	err   error
}

func (m ImportModel) checkCmd(path string) tea.Cmd {
	scope := m.Scope

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return checkResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		res, err := m.importService.Check(ctx, scope, f)

		return checkResultMsg{result: res, err: err}
	}
}

// commitCmd re-reads the file so the stored rows match what is on disk now.
func (m ImportModel) commitCmd(path string) tea.Cmd {
	scope := m.Scope

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return commitResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		_, txs, err := m.importService.Commit(ctx, scope, f)
		if err != nil {
			return commitResultMsg{err: err}
		}

		return commitResultMsg{count: len(txs)}
	}
}

// Preview list item

type previewItem struct {
	draft  importer.Draft
	text   string
	failed bool
}

func (i previewItem) Title() string       { return "" }
func (i previewItem) Description() string { return "" }
func (i previewItem) FilterValue() string { return "" }

type previewDelegate struct{}

func (d previewDelegate) Height() int                             { return 1 }
func (d previewDelegate) Spacing() int                            { return 0 }
func (d previewDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d previewDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(previewItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	if item.failed {
		fmt.Fprintln(w, cursor+errorStyle.Render(item.text))
		return
	}

	amount := FormatAmount(item.draft.Amount)
	if item.draft.Type == transaction.TypeExpense {
		amount = expenseStyle.Render("-" + amount)
	} else {
		amount = incomeStyle.Render(amount)
	}

	fmt.Fprintf(w, "%sL%-4d %s  %s  %s\n",
		cursor,
		item.draft.Line,
		FormatDate(item.draft.Date),
		amount,
		item.draft.Description,
	)
}
