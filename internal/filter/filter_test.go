package filter_test

import (
	"reflect"
	"testing"

	"github.com/temirov/mdtree/internal/filter"
)

func TestKey(t *testing.T) {
	testCases := []struct {
		name     string
		fileName string
		expected string
	}{
		{name: "simple extension", fileName: "main.py", expected: ".py"},
		{name: "upper case extension", fileName: "README.MD", expected: ".md"},
		{name: "double extension", fileName: "archive.tar.gz", expected: ".gz"},
		{name: "dotfile", fileName: ".gitignore", expected: ".gitignore"},
		{name: "dotfile with extension", fileName: ".eslintrc.json", expected: ".json"},
		{name: "no extension", fileName: "Makefile", expected: "Makefile"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := filter.Key(testCase.fileName); actual != testCase.expected {
				t.Fatalf("Key(%q) = %q, want %q", testCase.fileName, actual, testCase.expected)
			}
		})
	}
}

func TestNormalizeExtensions(t *testing.T) {
	actual := filter.NormalizeExtensions([]string{".PY, .js", "Makefile", " ", ".py"})
	expected := []string{".py", ".js", "Makefile"}
	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("unexpected keys: got %v want %v", actual, expected)
	}
}

func TestExtensionFilterAccepts(t *testing.T) {
	extensionFilter := filter.NewExtensionFilter([]string{".py", ".env", "Dockerfile"})
	testCases := []struct {
		fileName string
		expected bool
	}{
		{fileName: "app.py", expected: true},
		{fileName: "APP.PY", expected: true},
		{fileName: "app.js", expected: false},
		{fileName: "Dockerfile", expected: true},
		{fileName: "dockerfile", expected: false},
		{fileName: ".env", expected: false},
		{fileName: ".DS_Store", expected: false},
	}
	for _, testCase := range testCases {
		if actual := extensionFilter.Accepts(testCase.fileName); actual != testCase.expected {
			t.Errorf("Accepts(%q) = %v, want %v", testCase.fileName, actual, testCase.expected)
		}
	}
}

func TestExclusionSetMergesDefaults(t *testing.T) {
	exclusionSet := filter.NewExclusionSet([]string{"vendor", ""})
	expected := []string{".git", ".terraform", "node_modules", "vendor"}
	if !reflect.DeepEqual(exclusionSet.Names(), expected) {
		t.Fatalf("unexpected names: got %v want %v", exclusionSet.Names(), expected)
	}
	if exclusionSet.Contains("Vendor") {
		t.Fatalf("expected case-sensitive matching")
	}
}

func TestDefaultExcludedDirectoriesIsACopy(t *testing.T) {
	defaults := filter.DefaultExcludedDirectories()
	defaults[0] = "changed"
	if filter.DefaultExcludedDirectories()[0] == "changed" {
		t.Fatalf("default exclusions must not be mutable through the returned slice")
	}
}
