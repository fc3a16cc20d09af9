package report

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/transaction"
)

type StatementRow struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

// Statement is the realized movement of one account over a year or a month.
type Statement struct {
	AccountID uuid.UUID       `json:"account_id"`
	Account   string          `json:"account"`
	Year      int             `json:"year"`
	Month     *int            `json:"month,omitempty"`
	Opening   decimal.Decimal `json:"opening"`
	Closing   decimal.Decimal `json:"closing"`
	Rows      []StatementRow  `json:"rows"`
}

// BuildStatement computes the statement of account for year, or for a
// single month when month is set. Projected transactions are ignored. The
// opening balance is the account's initial balance plus every realized
// movement dated before the period.
func BuildStatement(account catalog.Account, txs []*transaction.Transaction, year int, month *int, snap catalog.Snapshot) Statement {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	if month != nil {
		start = time.Date(year, time.Month(*month), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	}

	st := Statement{
		AccountID: account.ID,
		Account:   account.Name,
		Year:      year,
		Month:     month,
		Opening:   account.InitialBalance,
		Rows:      []StatementRow{},
	}

	var period []*transaction.Transaction

	for _, tx := range txs {
		if tx.Status() != transaction.StatusRealized || tx.AccountID == nil || *tx.AccountID != account.ID {
			continue
		}

		switch {
		case tx.Date.Before(start):
			st.Opening = st.Opening.Add(tx.Net())
		case tx.Date.Before(end):
			period = append(period, tx)
		}
	}

	slices.SortStableFunc(period, func(a, b *transaction.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	names := snap.CategoryNames()
	balance := st.Opening

	for _, tx := range period {
		balance = balance.Add(tx.Net())

		category := uncategorized
		if tx.CategoryID != nil {
			if name, ok := names[*tx.CategoryID]; ok {
				category = name
			}
		}

		st.Rows = append(st.Rows, StatementRow{
			Date:        tx.Date,
			Description: tx.Description,
			Type:        typeLabel(tx.Type),
			Category:    category,
			Amount:      tx.Net(),
			Balance:     balance,
		})
	}

	st.Closing = balance

	return st
}

func typeLabel(t transaction.Type) string {
	if t == transaction.TypeIncome {
		return "Receita"
	}

	return "Despesa"
}
