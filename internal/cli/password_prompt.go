package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// passwordPrompt reads one line per call. On a terminal echo is turned off while
// reading; piped input is read as is.
type passwordPrompt struct {
	stdin  *os.File
	reader *bufio.Reader
	out    io.Writer
}

func newPasswordPrompt(stdin *os.File, out io.Writer) *passwordPrompt {
	return &passwordPrompt{stdin: stdin, reader: bufio.NewReader(stdin), out: out}
}

func (prompt *passwordPrompt) read(label string) (string, error) {
	fmt.Fprint(prompt.out, label)
	if restore, err := disableEcho(prompt.stdin); err == nil {
		defer func() {
			restore()
			fmt.Fprintln(prompt.out)
		}()
	}

	line, err := prompt.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if err != nil && line == "" {
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}
