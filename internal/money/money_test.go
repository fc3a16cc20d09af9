package money_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/money"
)

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "comma decimal with thousands", input: "1.234,56", want: "1234.56"},
		{name: "dot decimal", input: "1234.56", want: "1234.56"},
		{name: "dot thousands only", input: "1.500", want: "1500"},
		{name: "multiple dot groups", input: "1.234.567", want: "1234567"},
		{name: "currency prefix", input: "R$ 2.500,00", want: "2500"},
		{name: "plain integer", input: "100", want: "100"},
		{name: "short fraction", input: "10.5", want: "10.5"},
		{name: "negative", input: "-588,74", want: "-588.74"},
		{name: "empty", input: "", wantErr: true},
		{name: "letters only", input: "abc", wantErr: true},
		{name: "two commas", input: "1,2,3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.ParseAmount(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrInvalidAmount)
				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseDate(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}

	tests := []testCase{
		{name: "iso", input: "2024-03-05", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "br", input: "05/03/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "br single digits", input: "5/3/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "leap day", input: "29/02/2024", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "padded", input: "  01/01/2024 ", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "not a leap year", input: "29/02/2023", wantErr: true},
		{name: "february 31st", input: "31/02/2024", wantErr: true},
		{name: "iso out of range", input: "2024-02-30", wantErr: true},
		{name: "month 13", input: "01/13/2024", wantErr: true},
		{name: "two digit year", input: "01/01/24", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.ParseDate(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrInvalidDate)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, money.DaysIn(2024, time.February))
	assert.Equal(t, 28, money.DaysIn(2023, time.February))
	assert.Equal(t, 31, money.DaysIn(2024, time.December))
	assert.Equal(t, 30, money.DaysIn(2024, time.April))
}

func TestFormatDecimalComma(t *testing.T) {
	assert.Equal(t, "1234,50", money.FormatDecimalComma(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-3,00", money.FormatDecimalComma(decimal.NewFromInt(-3)))
}
