package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/report"
	"github.com/lobofinance/lobo/internal/transaction"
)

func TestBuildStatement(t *testing.T) {
	projected := income("999", "0", date(2024, 3, 5))
	projected.Paid = false

	elsewhere := expense("70", date(2024, 3, 6))
	elsewhere.AccountID = &otherID

	txs := []*transaction.Transaction{
		income("200", "0", date(2023, 12, 20)),
		expense("50", date(2024, 2, 10)),
		expense("30", date(2024, 3, 20)),
		income("1000", "0.02", date(2024, 3, 2)),
		projected,
		elsewhere,
		income("10", "0", date(2024, 4, 1)),
	}

	account := snap.Accounts[0]

	t.Run("month", func(t *testing.T) {
		st := report.BuildStatement(account, txs, 2024, new(3), snap)

		assert.True(t, dec("250").Equal(st.Opening))
		require.Len(t, st.Rows, 2)
		assert.Equal(t, date(2024, 3, 2), st.Rows[0].Date)
		assert.Equal(t, "Receita", st.Rows[0].Type)
		assert.Equal(t, "Vendas", st.Rows[0].Category)
		assert.True(t, dec("980").Equal(st.Rows[0].Amount))
		assert.True(t, dec("1230").Equal(st.Rows[0].Balance))
		assert.Equal(t, "Despesa", st.Rows[1].Type)
		assert.True(t, dec("1200").Equal(st.Rows[1].Balance))
		assert.True(t, dec("1200").Equal(st.Closing))
	})

	t.Run("year", func(t *testing.T) {
		st := report.BuildStatement(account, txs, 2024, nil, snap)

		assert.True(t, dec("300").Equal(st.Opening))
		require.Len(t, st.Rows, 4)
		assert.True(t, dec("1210").Equal(st.Closing))
	})

	t.Run("no movement", func(t *testing.T) {
		st := report.BuildStatement(account, nil, 2024, new(1), snap)

		assert.True(t, dec("100").Equal(st.Opening))
		assert.True(t, st.Opening.Equal(st.Closing))
		assert.NotNil(t, st.Rows)
		assert.Empty(t, st.Rows)
	})
}
