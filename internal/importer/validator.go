package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/money"
	"github.com/lobofinance/lobo/internal/transaction"
)

const headerError = "Cabeçalho inválido. Campos mínimos: Data, Tipo, Descrição, Valor, Categoria"

// Draft is a validated import row, ready to be stored.
type Draft struct {
	Line            int              `json:"line"`
	Date            time.Time        `json:"date"`
	Type            transaction.Type `json:"type"`
	Description     string           `json:"description"`
	Amount          decimal.Decimal  `json:"amount"`
	Paid            bool             `json:"paid"`
	CategoryID      uuid.UUID        `json:"category_id"`
	CostCenterID    *uuid.UUID       `json:"cost_center_id"`
	AccountID       *uuid.UUID       `json:"account_id"`
	PaymentMethodID *uuid.UUID       `json:"payment_method_id"`
	FeePercent      decimal.Decimal  `json:"fee_percent"`
}

func (d Draft) Params() transaction.CreateParams {
	return transaction.CreateParams{
		Type:            d.Type,
		Description:     d.Description,
		Amount:          d.Amount,
		Date:            d.Date,
		Paid:            d.Paid,
		AccountID:       d.AccountID,
		CategoryID:      &d.CategoryID,
		CostCenterID:    d.CostCenterID,
		PaymentMethodID: d.PaymentMethodID,
		FeePercent:      d.FeePercent,
	}
}

// Result holds the drafts of valid rows and one message per problem found.
// The batch should only be stored when Errors is empty.
type Result struct {
	Items  []Draft  `json:"items"`
	Errors []string `json:"errors"`
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0 && len(r.Items) > 0
}

// Validate parses delimited text whose first non-empty row is a header and
// checks every data row against the catalog. It never fails: unreadable
// input surfaces as a header error.
func Validate(text string, snap catalog.Snapshot) Result {
	res := Result{Items: []Draft{}, Errors: []string{}}

	rows := splitRecords(text, detectDelimiter(text))

	var h header
	if len(rows) > 0 {
		h = newHeader(rows[0])
		rows = rows[1:]
	}

	if !h.hasRequired() {
		res.Errors = append(res.Errors, headerError)
	}

	for i, row := range rows {
		line := i + 2

		draft, problems := validateRow(h, row, snap)
		if len(problems) > 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("Linha %d: %s", line, strings.Join(problems, "; ")))
			continue
		}

		draft.Line = line
		res.Items = append(res.Items, draft)
	}

	return res
}

func validateRow(h header, row []string, snap catalog.Snapshot) (Draft, []string) {
	var (
		d        Draft
		problems []string
	)

	date, err := money.ParseDate(h.get(row, colDate))
	if err != nil {
		problems = append(problems, "Data inválida (dd/mm/yyyy ou YYYY-MM-DD)")
	}

	d.Date = date

	d.Type = transaction.TypeExpense
	if kind := strings.ToLower(h.get(row, colType)); strings.Contains(kind, "rece") || strings.Contains(kind, "income") {
		d.Type = transaction.TypeIncome
	}

	d.Description = h.get(row, colDescription)
	if d.Description == "" {
		problems = append(problems, "Descrição vazia")
	}

	amount, err := money.ParseAmount(h.get(row, colAmount))
	if err != nil || !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		problems = append(problems, "Valor inválido")
	}

	d.Amount = amount

	categoryName := h.get(row, colCategory)
	if c, ok := snap.CategoryByName(categoryName); ok {
		d.CategoryID = c.ID
	} else {
		problems = append(problems, fmt.Sprintf("Categoria '%s' não encontrada", categoryName))
	}

	if name := h.get(row, colCostCenter); name != "" {
		if cc, ok := snap.CostCenterByName(name); ok {
			d.CostCenterID = &cc.ID
		} else {
			problems = append(problems, fmt.Sprintf("Centro de Custo '%s' não encontrado", name))
		}
	}

	if name := h.get(row, colAccount); name != "" {
		if a, ok := snap.AccountByName(name); ok {
			d.AccountID = &a.ID
		} else {
			problems = append(problems, fmt.Sprintf("Conta '%s' não encontrada", name))
		}
	} else if a, ok := snap.DefaultAccount(); ok {
		d.AccountID = &a.ID
	}

	methodName := h.get(row, colPaymentMethod)
	if pm, ok := snap.PaymentMethodByName(methodName); ok {
		d.PaymentMethodID = &pm.ID
	}

	d.FeePercent = snap.FeePercent(methodName, h.get(row, colFee))
	d.Paid = strings.Contains(strings.ToLower(h.get(row, colStatus)), "real")

	return d, problems
}
