package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"kvcore/internal/command"
	"kvcore/internal/logger"
)

const prompt = "kvcore> "

// Config holds the configuration for the shell
type Config struct {
	Eval string // single command to execute
	File string // file of commands to execute
	Pipe bool   // read commands from stdin without a prompt
}

// Shell executes commands typed by a user against an in-process registry.
type Shell struct {
	reg     *command.Registry
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	raw     bool
	history *CommandHistory
}

// New creates a shell reading from in and writing replies to out and
// diagnostics to errOut.
func New(reg *command.Registry, in io.Reader, out, errOut io.Writer, raw bool) *Shell {
	return &Shell{
		reg:     reg,
		in:      in,
		out:     out,
		errOut:  errOut,
		raw:     raw,
		history: NewCommandHistory(100),
	}
}

// Run dispatches to the mode selected by config. Extra args form a single
// command, like redis-cli.
func (s *Shell) Run(config *Config, args []string) error {
	switch {
	case config.Eval != "":
		return s.ExecuteCommand(config.Eval)
	case len(args) > 0:
		return s.ExecuteCommand(strings.Join(args, " "))
	case config.File != "":
		return s.ExecuteFile(config.File)
	case config.Pipe:
		return s.ExecuteLines(s.in, false)
	default:
		s.ExecuteInteractive()
		return nil
	}
}

// ExecuteCommand runs one command line and prints its reply.
func (s *Shell) ExecuteCommand(line string) error {
	reply, err := s.reg.ExecuteLine(line)
	s.printReply(reply, "")
	if err != nil {
		logger.WithField("command", line).Errorf("command failed: %v", err)
	}
	return err
}

// ExecuteFile runs every command in filename; see ExecuteLines.
func (s *Shell) ExecuteFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open %s: %w", filename, err)
	}
	defer file.Close()
	return s.ExecuteLines(file, true)
}

// ExecuteLines runs one command per line of r. Blank lines and lines starting
// with # are skipped. Execution stops at the first store failure, since a
// poisoned collection will keep failing.
func (s *Shell) ExecuteLines(r io.Reader, numbered bool) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		reply, err := s.reg.ExecuteLine(line)
		prefix := ""
		if numbered && !s.raw {
			prefix = fmt.Sprintf("Line %d: ", lineNum)
		}
		s.printReply(reply, prefix)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

// ExecuteInteractive runs the prompt loop. When stdin is a terminal it is put
// in raw mode for history navigation; otherwise it falls back to line mode.
func (s *Shell) ExecuteInteractive() {
	fmt.Fprintf(s.out, "kvcore shell\n")
	fmt.Fprintf(s.out, "Type 'help' for commands, 'quit' to exit\n\n")

	f, ok := s.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		s.executeInteractiveFallback()
		return
	}

	oldState, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		fmt.Fprintf(s.errOut, "Warning: could not set terminal to raw mode: %v\n", err)
		s.executeInteractiveFallback()
		return
	}
	defer func() { _ = term.Restore(int(f.Fd()), oldState) }()

	reader := bufio.NewReader(f)
	ed := &lineEditor{out: s.out, history: s.history}
	for {
		fmt.Fprint(s.out, "\r"+prompt)
		input, err := ed.readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(s.errOut, "\r\nError reading input: %v\r\n", err)
			}
			break
		}
		if !s.handleInput(strings.TrimSpace(input), "\r\n") {
			break
		}
	}
	fmt.Fprint(s.out, "\rGoodbye!\r\n")
}

func (s *Shell) executeInteractiveFallback() {
	reader := bufio.NewReader(s.in)
	for {
		fmt.Fprint(s.out, prompt)
		input, err := reader.ReadString('\n')
		if err != nil && (input == "" || !errors.Is(err, io.EOF)) {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(s.errOut, "Error reading input: %v\n", err)
			}
			fmt.Fprintln(s.out)
			break
		}
		if !s.handleInput(strings.TrimSpace(input), "\n") {
			break
		}
	}
	fmt.Fprintln(s.out, "Goodbye!")
}

// handleInput executes one interactive line and reports whether the loop
// should continue.
func (s *Shell) handleInput(input, newline string) bool {
	switch strings.ToLower(input) {
	case "":
		return true
	case "quit", "exit":
		return false
	case "help":
		s.printHelp(newline)
		return true
	case "clear":
		fmt.Fprint(s.out, "\033[H\033[2J")
		return true
	}

	s.history.Add(input)
	reply, err := s.reg.ExecuteLine(input)
	text := s.render(reply)
	fmt.Fprint(s.out, strings.ReplaceAll(text, "\n", newline)+newline)
	if err != nil {
		logger.WithField("command", input).Errorf("command failed: %v", err)
	}
	return true
}

func (s *Shell) render(reply command.Reply) string {
	if !s.raw {
		return reply.Format()
	}
	switch reply.Type {
	case command.Integer:
		return fmt.Sprint(reply.Int)
	case command.Array:
		parts := make([]string, len(reply.Array))
		for i, item := range reply.Array {
			parts[i] = s.render(item)
		}
		return strings.Join(parts, "\n")
	default:
		if reply.IsNull {
			return ""
		}
		return reply.Str
	}
}

func (s *Shell) printReply(reply command.Reply, prefix string) {
	fmt.Fprintln(s.out, prefix+s.render(reply))
}

func (s *Shell) printHelp(newline string) {
	lines := []string{
		"Shell commands:",
		"  help                    - Show this help",
		"  quit, exit              - Exit the shell",
		"  clear                   - Clear the screen",
	}

	var reads, writes []string
	for _, name := range s.reg.List() {
		cmd, ok := s.reg.Get(name)
		if !ok {
			continue
		}
		if cmd.ReadOnly {
			reads = append(reads, "  "+cmd.Usage)
		} else {
			writes = append(writes, "  "+cmd.Usage)
		}
	}
	lines = append(lines, "", "Write commands:")
	lines = append(lines, writes...)
	lines = append(lines, "", "Read commands:")
	lines = append(lines, reads...)

	fmt.Fprint(s.out, strings.Join(lines, newline)+newline)
}
