package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRecords(t *testing.T) {
	type testCase struct {
		name  string
		input string
		delim rune
		want  [][]string
	}

	tests := []testCase{
		{
			name:  "plain",
			input: "a,b,c\n1,2,3\n",
			delim: ',',
			want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name:  "quoted delimiter",
			input: "Descricao,Valor\n\"Venda, balcão\",\"1.234,56\"",
			delim: ',',
			want:  [][]string{{"Descricao", "Valor"}, {"Venda, balcão", "1.234,56"}},
		},
		{
			name:  "escaped quote",
			input: "\"Disse \"\"oi\"\"\",2",
			delim: ',',
			want:  [][]string{{"Disse \"oi\"", "2"}},
		},
		{
			name:  "newline inside quotes",
			input: "\"linha 1\nlinha 2\",x\r\ny,z\r\n",
			delim: ',',
			want:  [][]string{{"linha 1\nlinha 2", "x"}, {"y", "z"}},
		},
		{
			name:  "blank rows dropped and fields trimmed",
			input: "\n  a , b \n,,\n\n c,d",
			delim: ',',
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "semicolon",
			input: "Data;Valor\n01/01/2024;10,50\n",
			delim: ';',
			want:  [][]string{{"Data", "Valor"}, {"01/01/2024", "10,50"}},
		},
		{
			name:  "empty",
			input: "",
			delim: ',',
			want:  [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitRecords(tt.input, tt.delim)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ',', detectDelimiter("Data,Tipo,Valor\n1;2;3;4"))
	assert.Equal(t, ';', detectDelimiter("\n\nData;Tipo;Valor\n"))
	assert.Equal(t, ',', detectDelimiter("\"a;b;c\",d\n"))
	assert.Equal(t, ',', detectDelimiter(""))
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "centrodecusto", normalizeHeader("Centro de Custo"))
	assert.Equal(t, "centrodecusto", normalizeHeader("centro_de_CUSTO"))
	assert.Equal(t, "descricao", normalizeHeader(" Descrição "))
	assert.Equal(t, "formadepagamento", normalizeHeader("Forma de Pagamento"))
}
