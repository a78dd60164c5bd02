package prompt_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/mdtree/internal/prompt"
	"github.com/temirov/mdtree/internal/types"
)

var sampleCounts = []types.ExtensionCount{
	{Key: ".py", Count: 12},
	{Key: ".md", Count: 3},
	{Key: "Makefile", Count: 1},
}

func TestExtensions(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "blank selects all", input: "\n", expected: []string{".py", ".md", "Makefile"}},
		{name: "indices", input: "1,3\n", expected: []string{".py", "Makefile"}},
		{name: "keys", input: ".MD, Makefile\n", expected: []string{".md", "Makefile"}},
		{name: "mixed with duplicates", input: "2, .md ,1\n", expected: []string{".md", ".py"}},
		{name: "retry after unknown selection", input: "9\n.rs\n1\n", expected: []string{".py"}},
		{name: "retry after empty selection", input: ",\n2\n", expected: []string{".md"}},
		{name: "answer without trailing newline", input: "2", expected: []string{".md"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var output strings.Builder
			selected, err := prompt.New(strings.NewReader(testCase.input), &output).Extensions(sampleCounts)
			if err != nil {
				t.Fatalf("Extensions failed: %v", err)
			}
			if !reflect.DeepEqual(selected, testCase.expected) {
				t.Fatalf("unexpected selection: got %v want %v", selected, testCase.expected)
			}
			if !strings.Contains(output.String(), "  [1] .py (12)\n") {
				t.Fatalf("checklist not shown:\n%s", output.String())
			}
		})
	}
}

func TestSingleFile(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{input: "\n", expected: false},
		{input: "y\n", expected: true},
		{input: "YES\n", expected: true},
		{input: "no\n", expected: false},
		{input: "maybe\ny\n", expected: true},
	}
	for _, testCase := range testCases {
		var output strings.Builder
		answer, err := prompt.New(strings.NewReader(testCase.input), &output).SingleFile()
		if err != nil {
			t.Fatalf("SingleFile(%q) failed: %v", testCase.input, err)
		}
		if answer != testCase.expected {
			t.Errorf("SingleFile(%q) = %v, want %v", testCase.input, answer, testCase.expected)
		}
	}
}

func TestOutputDirectory(t *testing.T) {
	var output strings.Builder
	answer, err := prompt.New(strings.NewReader("\n"), &output).OutputDirectory("./project")
	if err != nil {
		t.Fatalf("OutputDirectory failed: %v", err)
	}
	if answer != "./project" {
		t.Fatalf("expected the default, got %q", answer)
	}
	if !strings.Contains(output.String(), "[./project]") {
		t.Fatalf("default not shown: %q", output.String())
	}

	answer, err = prompt.New(strings.NewReader("out\n"), &output).OutputDirectory("./project")
	if err != nil || answer != "out" {
		t.Fatalf("expected the typed answer, got %q (%v)", answer, err)
	}
}

func TestInputDirectoryRetriesUntilDirectory(t *testing.T) {
	root := t.TempDir()
	regularFile := filepath.Join(root, "file.txt")
	if err := os.WriteFile(regularFile, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	input := "\n" + filepath.Join(root, "absent") + "\n" + regularFile + "\n" + root + "\n"

	var output strings.Builder
	answer, err := prompt.New(strings.NewReader(input), &output).InputDirectory()
	if err != nil {
		t.Fatalf("InputDirectory failed: %v", err)
	}
	if answer != root {
		t.Fatalf("expected %s, got %s", root, answer)
	}
	if strings.Count(output.String(), "is not a directory") != 2 {
		t.Fatalf("expected two rejections:\n%s", output.String())
	}
}

func TestClosedInput(t *testing.T) {
	var output strings.Builder
	if _, err := prompt.New(strings.NewReader(""), &output).InputDirectory(); !errors.Is(err, prompt.ErrNoAnswer) {
		t.Fatalf("expected ErrNoAnswer, got %v", err)
	}
	if _, err := prompt.New(strings.NewReader("bogus\n"), &output).Extensions(sampleCounts); !errors.Is(err, prompt.ErrNoAnswer) {
		t.Fatalf("expected ErrNoAnswer after a rejected answer, got %v", err)
	}
}

func TestIsInteractive(t *testing.T) {
	if prompt.IsInteractive(nil) {
		t.Fatalf("nil file must not be interactive")
	}
	regularFile, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer regularFile.Close()
	if prompt.IsInteractive(regularFile) {
		t.Fatalf("regular file must not be interactive")
	}
}
