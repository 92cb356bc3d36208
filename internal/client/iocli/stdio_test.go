package iocli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestStreams_Output(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStreams(strings.NewReader(""), &out)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s\n", 1, "abc")
	n, err := stdio.Write([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, "hello world\ntest 1 abc\nraw", out.String())
}

func TestStreams_ReadInput(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStreams(strings.NewReader("  user input \nsecond"), &out)

	result, err := stdio.ReadInput("Prompt: ")
	require.NoError(t, err)
	assert.Equal(t, "user input", result)
	assert.Equal(t, "Prompt: ", out.String())

	// последняя строка без перевода строки
	result, err = stdio.ReadPassword("Passphrase: ")
	require.NoError(t, err)
	assert.Equal(t, "second", result)

	_, err = stdio.ReadInput("More: ")
	assert.ErrorIs(t, err, io.EOF)
}

// ReadInput из pipe вместо терминала
func TestReadInput_Pipe(t *testing.T) {
	input := "user input\n"
	r, w, err := os.Pipe()
	require.NoError(t, err)

	go func() {
		_, _ = w.Write([]byte(input))
		_ = w.Close()
	}()

	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()
	os.Stdin = r

	stdio := NewStdio()
	result, err := stdio.ReadInput("Prompt: ")
	assert.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(input), result)
}

// pipe не является терминалом: пароль читается как строка
func TestReadPassword_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	go func() {
		_, _ = w.Write([]byte("correct horse battery\n"))
		_ = w.Close()
	}()

	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()
	os.Stdin = r

	result, err := NewStdio().ReadPassword("Passphrase: ")
	require.NoError(t, err)
	assert.Equal(t, "correct horse battery", result)
}
