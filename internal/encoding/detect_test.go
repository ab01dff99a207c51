package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/orcamento/internal/encoding"
)

func readAll(t *testing.T, input []byte) (string, string) {
	t.Helper()

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Data;Histórico;Valor\n05/01/2026;Padaria São João;-12,50\n"

	got, charset := readAll(t, []byte(input))
	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// "Histórico;Descrição\n" with ó = 0xF3, ç = 0xE7, ã = 0xE3.
	latin1 := []byte{
		'H', 'i', 's', 't', 0xF3, 'r', 'i', 'c', 'o', ';',
		'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', '\n',
	}

	got, charset := readAll(t, latin1)
	assert.Equal(t, "Histórico;Descrição\n", got)
	assert.NotEqual(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Descrição;Valor\n")...)

	got, charset := readAll(t, input)
	assert.Equal(t, "Descrição;Valor\n", got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	input := []byte{0xFF, 0xFE, 'V', 0x00, 'a', 0x00, 'l', 0x00}

	got, charset := readAll(t, input)
	assert.Equal(t, "Val", got)
	assert.Equal(t, encoding.UTF16LE, charset)
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	got, charset := readAll(t, nil)
	assert.Empty(t, got)
	assert.Equal(t, encoding.UTF8, charset)
}
