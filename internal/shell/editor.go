package shell

import (
	"bufio"
	"fmt"
	"io"
)

const (
	keyCtrlC     = 3
	keyLF        = 10
	keyCR        = 13
	keyEsc       = 27
	keyBackspace = 127
)

// lineEditor reads one line from a raw-mode terminal, handling history
// navigation and basic cursor movement.
type lineEditor struct {
	out     io.Writer
	history *CommandHistory

	buf    []byte
	cursor int
}

func (e *lineEditor) replace(line string) {
	fmt.Fprint(e.out, "\r\033[K"+prompt+line)
	e.buf = append(e.buf[:0], line...)
	e.cursor = len(e.buf)
}

// redrawTail reprints everything after the cursor and moves the terminal
// cursor back to its logical position.
func (e *lineEditor) redrawTail() {
	tail := e.buf[e.cursor:]
	fmt.Fprintf(e.out, "%s\033[K", tail)
	if len(tail) > 0 {
		fmt.Fprintf(e.out, "\033[%dD", len(tail))
	}
}

func (e *lineEditor) readLine(reader *bufio.Reader) (string, error) {
	e.buf = e.buf[:0]
	e.cursor = 0

	for {
		char, err := reader.ReadByte()
		if err != nil {
			return "", err
		}

		switch {
		case char == keyEsc:
			if err := e.escape(reader); err != nil {
				return "", err
			}

		case char == keyBackspace:
			if e.cursor > 0 {
				e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
				e.cursor--
				fmt.Fprint(e.out, "\b")
				e.redrawTail()
			}

		case char == keyCtrlC:
			fmt.Fprint(e.out, "\r\nUse 'quit' or 'exit' to exit the shell\r\n")
			fmt.Fprint(e.out, "\r"+prompt)
			e.buf = e.buf[:0]
			e.cursor = 0

		case char == keyLF || char == keyCR:
			fmt.Fprint(e.out, "\r\n")
			e.history.ResetPosition()
			return string(e.buf), nil

		case char >= 32 && char <= 126:
			e.buf = append(e.buf, 0)
			copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
			e.buf[e.cursor] = char
			fmt.Fprintf(e.out, "%c", char)
			e.cursor++
			e.redrawTail()
		}
	}
}

// escape handles an ANSI CSI sequence following ESC.
func (e *lineEditor) escape(reader *bufio.Reader) error {
	next, err := reader.ReadByte()
	if err != nil {
		return err
	}
	if next != '[' {
		return nil
	}
	code, err := reader.ReadByte()
	if err != nil {
		return err
	}

	switch code {
	case 'A': // up
		if prev, ok := e.history.Previous(); ok {
			e.replace(prev)
		}
	case 'B': // down
		next, _ := e.history.Next()
		e.replace(next)
	case 'C': // right
		if e.cursor < len(e.buf) {
			e.cursor++
			fmt.Fprint(e.out, "\033[C")
		}
	case 'D': // left
		if e.cursor > 0 {
			e.cursor--
			fmt.Fprint(e.out, "\033[D")
		}
	case 'H': // home
		fmt.Fprint(e.out, "\r"+prompt)
		e.cursor = 0
	case 'F': // end
		if n := len(e.buf) - e.cursor; n > 0 {
			fmt.Fprintf(e.out, "\033[%dC", n)
		}
		e.cursor = len(e.buf)
	case '3': // delete, sent as ESC [ 3 ~
		tilde, err := reader.ReadByte()
		if err != nil {
			return err
		}
		if tilde == '~' && e.cursor < len(e.buf) {
			e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
			e.redrawTail()
		}
	}
	return nil
}
