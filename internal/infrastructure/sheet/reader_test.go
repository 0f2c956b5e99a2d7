package sheet

import (
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	t.Run("strips UTF-8 BOM", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("legajo,nombre\n123,GOMEZ")...)
		r, err := NewReaderFromBytes(data)
		require.NoError(t, err)
		require.NoError(t, r.ParseHeader())
		assert.Equal(t, []string{"legajo", "nombre"}, r.Headers())
	})

	t.Run("rejects empty file", func(t *testing.T) {
		_, err := NewReaderFromBytes([]byte{})
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("rejects invalid encoding", func(t *testing.T) {
		_, err := NewReaderFromBytes([]byte{0xFF, 0xFE, 0x41, 0x00})
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		r, err := NewReader(strings.NewReader("a;b\n1;2"), WithDelimiter(';'))
		require.NoError(t, err)
		require.NoError(t, r.ParseHeader())
		row, err := r.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "1", row.Get("a"))
		assert.Equal(t, "2", row.Get("b"))
	})
}

func TestReaderRows(t *testing.T) {
	csv := "legajo,nombre,TÍTULO\n" +
		"123, GOMEZ MARIA ,7.50\n" +
		",,\n" +
		"456,PEREZ JUAN,\n"

	r, err := NewReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.NoError(t, r.ParseHeader())

	rows, err := r.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, rows, 2, "blank line is skipped")

	assert.Equal(t, 2, rows[0].LineNumber)
	assert.Equal(t, "GOMEZ MARIA", rows[0].Get("nombre"), "fields are trimmed")
	assert.Equal(t, "7.50", rows[0].Get("TÍTULO"))
	assert.Equal(t, "456", rows[1].Get("legajo"))
	assert.Equal(t, "sin dato", rows[1].GetOrDefault("TÍTULO", "sin dato"))
}

func TestReaderMissingHeaders(t *testing.T) {
	r, err := NewReader(strings.NewReader("legajo,nombre\n1,x"))
	require.NoError(t, err)
	require.NoError(t, r.ParseHeader())

	assert.True(t, r.HasHeader("legajo"))
	assert.False(t, r.HasHeader("TÍTULO"))
	assert.Equal(t, []string{"TÍTULO", "CURSOS"}, r.MissingHeaders([]string{"legajo", "TÍTULO", "CURSOS"}))
}

func TestReaderShortRecords(t *testing.T) {
	r, err := NewReader(strings.NewReader("a,b,c\n1,2"))
	require.NoError(t, err)
	require.NoError(t, r.ParseHeader())

	row, err := r.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, "", row.Get("c"), "missing trailing columns default to empty")

	_, err = r.ReadRow()
	assert.Equal(t, io.EOF, err)
}

func TestNormalizeNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"7.50", "7.50"},
		{"7,50", "7.50"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"$ 9,00", "9.00"},
		{"85%", "85"},
		{"-2,5", "-2.5"},
		{"1,000,000", "1000000"},
		{"", ""},
		{"   ", ""},
		{"n/a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNumeric(tt.in))
		})
	}
}

func TestRowDecimal(t *testing.T) {
	row := &Row{
		LineNumber: 2,
		Data: map[string]string{
			"TÍTULO":   "7,50",
			"CURSOS":   "abc",
			"PROMEDIO": "",
		},
	}

	assert.True(t, row.Decimal("TÍTULO").Equal(decimal.RequireFromString("7.5")))

	v, ok := row.DecimalOK("CURSOS")
	assert.False(t, ok, "garbage parses as absent")
	assert.True(t, v.IsZero())

	v, ok = row.DecimalOK("PROMEDIO")
	assert.False(t, ok)
	assert.True(t, v.IsZero())

	assert.True(t, row.Decimal("inexistente").IsZero())
}
