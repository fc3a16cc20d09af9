package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/lobofinance/lobo/internal/money"
)

// Filename is the suggested download name of a report export.
func Filename(kind Kind) string {
	return fmt.Sprintf("relatorio_%s.csv", kind)
}

// WriteCSV writes r as a semicolon separated sheet with comma decimals.
// Cash-flow reports carry an extra accumulated balance column.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	cash := r.Kind != KindDRE

	header := []string{"Categoria", "Receitas", "Despesas", "Saldo"}
	if cash {
		header = []string{"Período", "Receitas", "Despesas", "Saldo", "Acumulado"}
	}

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range r.Rows {
		record := []string{
			row.Label,
			money.FormatDecimalComma(row.Income),
			money.FormatDecimalComma(row.Expense),
			money.FormatDecimalComma(row.Net),
		}

		if cash {
			record = append(record, money.FormatDecimalComma(row.Running))
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %q: %w", row.Label, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}
