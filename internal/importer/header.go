package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// column is a logical import column and the header spellings it accepts,
// in priority order.
type column struct {
	name    string
	aliases []string
}

var (
	colDate          = column{"Data", []string{"Data", "Date"}}
	colType          = column{"Tipo", []string{"Tipo", "Type"}}
	colDescription   = column{"Descrição", []string{"Descricao", "Descrição", "Description"}}
	colAmount        = column{"Valor", []string{"Valor", "Amount"}}
	colCategory      = column{"Categoria", []string{"Categoria", "Category"}}
	colCostCenter    = column{"Centro de Custo", []string{"CentroDeCusto", "Centro de Custo", "Centro_Custo", "Cost Center", "CostCenter", "CentroCusto", "CC"}}
	colAccount       = column{"Conta", []string{"Conta", "Account"}}
	colPaymentMethod = column{"Forma de Pagamento", []string{"FormaDePagamento", "Forma de Pagamento", "Pagamento", "FormaPagamento", "Payment Method"}}
	colFee           = column{"Taxa", []string{"DescricaoTaxa", "Taxa", "DescricaoTaxaMaquininha", "Fee Description", "Fee"}}
	colStatus        = column{"Status", []string{"Status"}}
)

var requiredColumns = []column{colDate, colType, colDescription, colAmount, colCategory}

// normalizeHeader folds a header cell so that case, diacritics, whitespace
// and underscores do not matter: "Centro de Custo" and "centro_de_custo"
// both become "centrodecusto".
func normalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' {
			return -1
		}

		return unicode.ToLower(r)
	}, folded)
}

// header maps logical columns to their position in the header row.
type header struct {
	cells []string
}

func newHeader(row []string) header {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = normalizeHeader(c)
	}

	return header{cells: cells}
}

func (h header) index(c column) int {
	for _, alias := range c.aliases {
		want := normalizeHeader(alias)
		for i, cell := range h.cells {
			if cell == want {
				return i
			}
		}
	}

	return -1
}

func (h header) hasRequired() bool {
	for _, c := range requiredColumns {
		if h.index(c) < 0 {
			return false
		}
	}

	return true
}

// get returns the trimmed cell of column c in row, or "" when the column is
// absent or the row is short.
func (h header) get(row []string, c column) string {
	i := h.index(c)
	if i < 0 || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}
