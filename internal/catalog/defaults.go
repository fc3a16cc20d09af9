package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/transaction"
)

type Defaults struct {
	Categories     []DefaultCategory
	CostCenters    []string
	Accounts       []string
	PaymentMethods []DefaultPaymentMethod
}

type DefaultCategory struct {
	Name          string
	Type          transaction.Type
	Subcategories []string
}

type DefaultPaymentMethod struct {
	Name string
	Fees []DefaultFee
}

type DefaultFee struct {
	Name    string
	Percent decimal.Decimal
}

// DefaultCatalog is the starter catalog of a new company. The first account
// is the default one.
func DefaultCatalog() Defaults {
	return Defaults{
		Categories: []DefaultCategory{
			{Name: "Vendas", Type: transaction.TypeIncome},
			{Name: "Serviços", Type: transaction.TypeIncome},
			{Name: "Insumos", Type: transaction.TypeExpense, Subcategories: []string{"Matéria-Prima"}},
			{Name: "Marketing", Type: transaction.TypeExpense, Subcategories: []string{"Anúncios"}},
			{Name: "Operacional", Type: transaction.TypeExpense},
			{Name: "Impostos", Type: transaction.TypeExpense},
		},
		CostCenters: []string{"Geral", "Loja"},
		Accounts:    []string{"Conta Principal"},
		PaymentMethods: []DefaultPaymentMethod{
			{Name: "PIX"},
			{Name: "Dinheiro"},
			{
				Name: "Cartão (Maquininha)",
				Fees: []DefaultFee{
					{Name: "Débito (2%)", Percent: decimal.RequireFromString("0.02")},
					{Name: "Crédito (3,5%)", Percent: decimal.RequireFromString("0.035")},
					{Name: "Parcelado (5%)", Percent: decimal.RequireFromString("0.05")},
				},
			},
		},
	}
}
