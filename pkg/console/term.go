package console

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is the Console implementation over the process' standard
// input/output. Masked reads and width detection need stdin to be a real
// terminal; when it is not, the width is reported as unknown and masked
// reads fall back to plain reads.
type Terminal struct {
	reader *bufio.Reader
}

var _ Console = (*Terminal)(nil)

// NewTerminal creates a console over stdin/stdout.
func NewTerminal() *Terminal {
	return &Terminal{reader: bufio.NewReader(os.Stdin)}
}

// Print writes one line to stdout.
func (t *Terminal) Print(line string) error {
	_, err := fmt.Fprintln(os.Stdout, line)
	return err
}

// Width returns the terminal width, or 0 when stdout is not a terminal.
func (t *Terminal) Width() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// ReadLine prompts and reads one line, with echo.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	if _, err := fmt.Fprint(os.Stdout, prompt); err != nil {
		return "", err
	}
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadLineSecure prompts and reads one line without echoing it. When stdin
// is not a terminal (e.g. scripted input), masking is impossible and the
// read degrades to a plain one.
func (t *Terminal) ReadLineSecure(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return t.ReadLine(prompt)
	}

	if _, err := fmt.Fprint(os.Stdout, prompt); err != nil {
		return "", err
	}
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stdout)
	if err != nil {
		return "", err
	}
	return string(password), nil
}
