package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio реализует IO поверх терминала или произвольных потоков
type Stdio struct {
	in     *bufio.Reader
	out    io.Writer
	stdin  *os.File // nil, если ввод не из файла
	prompt io.Writer
}

func NewStdio() IO {
	return &Stdio{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		stdin:  os.Stdin,
		prompt: os.Stderr,
	}
}

// NewStreams создает IO поверх заданных потоков. Пароль читается как обычная строка.
func NewStreams(in io.Reader, out io.Writer) IO {
	return &Stdio{
		in:     bufio.NewReader(in),
		out:    out,
		prompt: out,
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	_, _ = fmt.Fprint(s.prompt, prompt)
	return s.readLine()
}

// ReadPassword не отображает ввод, если stdin является терминалом.
// Иначе (pipe, файл) читает строку как есть.
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	_, _ = fmt.Fprint(s.prompt, prompt)
	if s.stdin == nil || !term.IsTerminal(int(s.stdin.Fd())) {
		return s.readLine()
	}

	pwBytes, err := term.ReadPassword(int(s.stdin.Fd()))
	_, _ = fmt.Fprintln(s.prompt)
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

func (s *Stdio) readLine() (string, error) {
	input, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
