package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/layout"
)

// Answers holds the selections made during an interactive session.
type Answers struct {
	Layout     layout.Kind
	ModuleName string
}

// Run asks for a layout (numbered menu, empty input keeps def) and then for
// the module name. A blank name is issue.InvalidInput.
func Run(r io.Reader, w io.Writer, def layout.Kind) (*Answers, error) {
	reader := bufio.NewReader(r)

	kinds := layout.Kinds()
	items := make([]string, len(kinds))
	defIdx := 0
	for i, k := range kinds {
		items[i] = fmt.Sprintf("%-8s %s", k, k.Describe())
		if k == def {
			defIdx = i
		}
	}

	idx, err := selectFromList(reader, w, "Select layout:", items, defIdx)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "\nEnter the name for the new feature module: ")
	name, err := readLine(reader)
	if err != nil {
		return nil, fmt.Errorf("reading module name: %w", err)
	}
	if name == "" {
		return nil, issue.New(issue.InvalidInput, "read module name", "module name cannot be empty")
	}

	return &Answers{Layout: kinds[idx], ModuleName: name}, nil
}

// selectFromList presents a numbered list and returns the selected index.
// An empty answer selects def.
func selectFromList(reader *bufio.Reader, w io.Writer, prompt string, items []string, def int) (int, error) {
	fmt.Fprintf(w, "\n%s\n", prompt)
	for i, item := range items {
		fmt.Fprintf(w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(w, "Enter number [1-%d] (default %d): ", len(items), def+1)

	line, err := readLine(reader)
	if err != nil {
		return 0, fmt.Errorf("reading selection: %w", err)
	}
	if line == "" {
		return def, nil
	}

	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(items) {
		return 0, issue.New(issue.InvalidInput, "read selection",
			fmt.Sprintf("invalid selection %q: choose 1-%d", line, len(items)))
	}
	return num - 1, nil
}

// readLine returns the next trimmed line. A final line without a newline is
// accepted; EOF before any input is an error.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// IsTerminal reports whether f is a character device (for auto-detecting
// interactive mode).
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
