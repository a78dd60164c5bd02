// Package prompt asks the user for run settings on a line-oriented terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/temirov/mdtree/internal/filter"
	"github.com/temirov/mdtree/internal/types"
)

const (
	inputDirectoryQuestion  = "Input directory: "
	outputDirectoryQuestion = "Output directory [%s]: "
	singleFileQuestion      = "Write everything into a single file? [y/N]: "
	extensionsHeader        = "Extensions found:\n"
	extensionLineFormat     = "  [%d] %s (%d)\n"
	extensionsQuestion      = "Select by number or extension, comma separated (blank selects all): "

	notDirectoryMessage    = "%s is not a directory\n"
	unknownAnswerMessage   = "please answer y or n\n"
	unknownSelectionFormat = "unknown selection %q"
	emptySelectionMessage  = "select at least one extension"

	selectionSeparator = ","
)

// ErrNoAnswer is returned when input ends before a question is answered.
var ErrNoAnswer = errors.New("no answer: input closed")

var yesAnswers = map[string]bool{"y": true, "yes": true, "n": false, "no": false}

// IsInteractive reports whether file is attached to a terminal.
func IsInteractive(file *os.File) bool {
	if file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// Prompter reads answers line by line from reader and writes questions to writer.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// New returns a Prompter over the given streams.
func New(reader io.Reader, writer io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(reader), writer: writer}
}

// InputDirectory asks until the answer names an existing directory.
func (prompter *Prompter) InputDirectory() (string, error) {
	for {
		answer, err := prompter.ask(inputDirectoryQuestion)
		if err != nil {
			return "", err
		}
		if answer == "" {
			continue
		}
		info, statErr := os.Stat(answer)
		if statErr != nil || !info.IsDir() {
			fmt.Fprintf(prompter.writer, notDirectoryMessage, answer)
			continue
		}
		return answer, nil
	}
}

// OutputDirectory asks for the output directory; a blank answer keeps defaultPath.
func (prompter *Prompter) OutputDirectory(defaultPath string) (string, error) {
	answer, err := prompter.ask(fmt.Sprintf(outputDirectoryQuestion, defaultPath))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return defaultPath, nil
	}
	return answer, nil
}

// SingleFile asks whether to combine all content; the default is no.
func (prompter *Prompter) SingleFile() (bool, error) {
	for {
		answer, err := prompter.ask(singleFileQuestion)
		if err != nil {
			return false, err
		}
		if answer == "" {
			return false, nil
		}
		if value, known := yesAnswers[strings.ToLower(answer)]; known {
			return value, nil
		}
		fmt.Fprint(prompter.writer, unknownAnswerMessage)
	}
}

// Extensions shows the discovered keys as a numbered checklist and returns the
// selected ones. A blank answer selects every key.
func (prompter *Prompter) Extensions(counts []types.ExtensionCount) ([]string, error) {
	fmt.Fprint(prompter.writer, extensionsHeader)
	for index, count := range counts {
		fmt.Fprintf(prompter.writer, extensionLineFormat, index+1, count.Key, count.Count)
	}
	for {
		answer, err := prompter.ask(extensionsQuestion)
		if err != nil {
			return nil, err
		}
		if answer == "" {
			keys := make([]string, 0, len(counts))
			for _, count := range counts {
				keys = append(keys, count.Key)
			}
			return keys, nil
		}
		selected, parseErr := parseSelection(answer, counts)
		if parseErr != nil {
			fmt.Fprintln(prompter.writer, parseErr.Error())
			continue
		}
		return selected, nil
	}
}

func parseSelection(answer string, counts []types.ExtensionCount) ([]string, error) {
	known := make(map[string]struct{}, len(counts))
	for _, count := range counts {
		known[count.Key] = struct{}{}
	}
	var selected []string
	for _, part := range strings.Split(answer, selectionSeparator) {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		if index, numberErr := strconv.Atoi(token); numberErr == nil {
			if index < 1 || index > len(counts) {
				return nil, fmt.Errorf(unknownSelectionFormat, token)
			}
			selected = append(selected, counts[index-1].Key)
			continue
		}
		normalized := filter.NormalizeExtensions([]string{token})
		if len(normalized) == 0 {
			continue
		}
		if _, exists := known[normalized[0]]; !exists {
			return nil, fmt.Errorf(unknownSelectionFormat, token)
		}
		selected = append(selected, normalized[0])
	}
	if len(selected) == 0 {
		return nil, errors.New(emptySelectionMessage)
	}
	return filter.NormalizeExtensions(selected), nil
}

func (prompter *Prompter) ask(question string) (string, error) {
	fmt.Fprint(prompter.writer, question)
	line, err := prompter.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoAnswer
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
