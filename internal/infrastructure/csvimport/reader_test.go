package csvimport_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/stock-ledger/internal/infrastructure/csvimport"
)

func TestReadRows_UTF8(t *testing.T) {
	in := "\ufeffcode,name,unit_price,minimum_stock,maximum_stock,current_stock\n" +
		"TOR-001,Tornillo,0.25,5,500,120\n" +
		"TUE-002,Tuerca,,,,\n"

	rows, errs, err := csvimport.ReadRows(strings.NewReader(in), csvimport.EncodingUTF8)
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, rows, 2)

	assert.Equal(t, "TOR-001", rows[0].Code)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "0.25", rows[0].UnitPrice.String())
	require.NotNil(t, rows[0].Balance)
	assert.Equal(t, int64(120), *rows[0].Balance)
	assert.Equal(t, int64(5), *rows[0].Minimum)

	assert.Nil(t, rows[1].Balance, "sin current_stock no se toca el saldo")
	assert.Nil(t, rows[1].Minimum)
	assert.Equal(t, 3, rows[1].Line)
}

func TestReadRows_Latin1(t *testing.T) {
	utf8 := "code,name\nCAF-001,Café molido\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf8)
	require.NoError(t, err)

	rows, errs, err := csvimport.ReadRows(bytes.NewBufferString(latin1), csvimport.EncodingLatin1)
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café molido", rows[0].Name)
}

func TestReadRows_ErroresPorFila(t *testing.T) {
	in := "code,name,current_stock,unit_price\n" +
		"A-1,Uno,diez,1\n" +
		"A-2,Dos,3,abc\n" +
		"A-3,Tres,4,2.5\n"

	rows, errs, err := csvimport.ReadRows(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Line)
	require.Len(t, errs, 2)
	assert.True(t, strings.HasPrefix(errs[0], "Fila 2:"), errs[0])
	assert.True(t, strings.HasPrefix(errs[1], "Fila 3:"), errs[1])
}

func TestReadRows_SinColumnasObligatorias(t *testing.T) {
	_, _, err := csvimport.ReadRows(strings.NewReader("sku,descripcion\n1,x\n"), "")
	assert.ErrorIs(t, err, csvimport.ErrMissingColumns)
}

func TestDecoder_Desconocida(t *testing.T) {
	_, err := csvimport.Decoder(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}
