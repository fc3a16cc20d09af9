package encoding_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/encoding"
)

func TestDecode(t *testing.T) {
	type testCase struct {
		name  string
		input []byte
		want  string
	}

	header := "Data;Tipo;Descrição;Valor\n"

	testCases := []testCase{
		{
			name:  "utf-8 passes through",
			input: []byte(header + "10/01/2024;Receita;Café;1.200,50\n"),
			want:  header + "10/01/2024;Receita;Café;1.200,50\n",
		},
		{
			name:  "utf-8 bom is stripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, header...),
			want:  header,
		},
		{
			name: "windows-1252",
			input: []byte{
				'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
				'V', 'a', 'l', 'o', 'r', '\n',
			},
			want: "Descrição;Valor\n",
		},
		{
			name:  "utf-16 little endian with bom",
			input: []byte{0xFF, 0xFE, 'D', 0, 'a', 0, 't', 0, 'a', 0, ';', 0, 0xE7, 0, '\n', 0},
			want:  "Data;ç\n",
		},
		{
			name:  "utf-16 big endian with bom",
			input: []byte{0xFE, 0xFF, 0, 'V', 0, 'a', 0, 'l', 0, 'o', 0, 'r'},
			want:  "Valor",
		},
		{
			name:  "empty",
			input: nil,
			want:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := encoding.Decode(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadText(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		got, err := encoding.ReadText(strings.NewReader("Data;Valor\n"), 11)
		require.NoError(t, err)
		assert.Equal(t, "Data;Valor\n", got)
	})

	t.Run("over limit", func(t *testing.T) {
		_, err := encoding.ReadText(bytes.NewReader(make([]byte, 12)), 11)
		assert.ErrorIs(t, err, encoding.ErrTooLarge)
	})
}
