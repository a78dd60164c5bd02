package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/mdtree/internal/filter"
	"github.com/temirov/mdtree/internal/tokenizer"
	"github.com/temirov/mdtree/internal/types"
	"github.com/temirov/mdtree/internal/walker"
)

const (
	defaultInputDirectory = "."
	defaultOutputSuffix   = "_markdown"

	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorInputDirectoryFormat   = "input directory %s: %w"
	errorPromptFormat           = "prompt for %s: %w"
	errorDiscoverFormat         = "discover extensions in %s: %w"
	errorOutputDirectoryFormat  = "output directory %s: %w"
)

// ErrOutputIsInput is returned when artifacts would be written into the input directory itself.
var ErrOutputIsInput = errors.New("output directory must differ from the input directory")

// ErrNoExtensions is returned when no extensions were selected from any source.
var ErrNoExtensions = errors.New("no file extensions selected; pass --extensions or set extensions in the configuration file")

// Configuration is the resolved, immutable settings of one run.
type Configuration struct {
	InputDirectory      string
	OutputDirectory     string
	Extensions          []string
	ExcludedDirectories []string
	SingleFile          bool
	Clipboard           bool
	Tokens              TokenSettings
}

// TokenSettings holds the resolved token counting options.
type TokenSettings struct {
	Enabled bool
	Model   string
}

// ExtensionFilter returns the filter selecting the configured extensions.
func (configuration Configuration) ExtensionFilter() filter.ExtensionFilter {
	return filter.NewExtensionFilter(configuration.Extensions)
}

// ExclusionSet returns the default exclusions merged with the configured ones.
func (configuration Configuration) ExclusionSet() filter.ExclusionSet {
	return filter.NewExclusionSet(configuration.ExcludedDirectories)
}

// Overrides carries values supplied on the command line. Nil pointers and
// empty values mean the flag was not given.
type Overrides struct {
	InputDirectory      string
	OutputDirectory     string
	Extensions          []string
	ExcludedDirectories []string
	SingleFile          *bool
	Clipboard           *bool
	Tokens              *bool
	Model               string
}

// Prompter asks the user for values that were not supplied elsewhere.
type Prompter interface {
	InputDirectory() (string, error)
	OutputDirectory(defaultPath string) (string, error)
	SingleFile() (bool, error)
	Extensions(counts []types.ExtensionCount) ([]string, error)
}

// DiscoverFunc counts the selectable extensions below a root.
type DiscoverFunc func(root string, exclusions filter.ExclusionSet) ([]types.ExtensionCount, error)

// ResolveOptions gathers the sources a Configuration is resolved from.
// A nil Prompter means the run is not interactive.
type ResolveOptions struct {
	WorkingDirectory string
	File             FileConfiguration
	Overrides        Overrides
	Prompter         Prompter
	Discover         DiscoverFunc
}

// Resolve combines command line values, prompt answers, configuration file
// values and defaults, in that order of precedence. The prompter is only asked
// for values that neither the command line nor the configuration file provide.
func Resolve(options ResolveOptions) (Configuration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return Configuration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}
	file := options.File
	overrides := options.Overrides
	prompter := options.Prompter

	inputDirectory := overrides.InputDirectory
	if inputDirectory == "" && prompter != nil {
		answer, err := prompter.InputDirectory()
		if err != nil {
			return Configuration{}, fmt.Errorf(errorPromptFormat, "input directory", err)
		}
		inputDirectory = answer
	}
	if inputDirectory == "" {
		inputDirectory = defaultInputDirectory
	}
	inputDirectory = absoluteFrom(workingDirectory, inputDirectory)
	if err := requireDirectory(inputDirectory); err != nil {
		return Configuration{}, err
	}

	excluded := append(append([]string{}, file.ExcludeDirs...), overrides.ExcludedDirectories...)
	resolved := Configuration{
		InputDirectory:      inputDirectory,
		ExcludedDirectories: filter.NewExclusionSet(excluded).Names(),
		Clipboard:           firstBool(overrides.Clipboard, file.Clipboard),
		Tokens: TokenSettings{
			Enabled: firstBool(overrides.Tokens, file.Tokens.Enabled),
			Model:   firstString(overrides.Model, file.Tokens.Model, tokenizer.DefaultModel),
		},
	}

	outputDirectory, err := resolveOutputDirectory(workingDirectory, inputDirectory, file, overrides, prompter)
	if err != nil {
		return Configuration{}, err
	}
	if samePath(outputDirectory, inputDirectory) {
		return Configuration{}, fmt.Errorf(errorOutputDirectoryFormat, outputDirectory, ErrOutputIsInput)
	}
	resolved.OutputDirectory = outputDirectory

	switch {
	case overrides.SingleFile != nil:
		resolved.SingleFile = *overrides.SingleFile
	case file.SingleFile != nil:
		resolved.SingleFile = *file.SingleFile
	case prompter != nil:
		answer, promptErr := prompter.SingleFile()
		if promptErr != nil {
			return Configuration{}, fmt.Errorf(errorPromptFormat, "single-file mode", promptErr)
		}
		resolved.SingleFile = answer
	}

	extensions, err := resolveExtensions(resolved, file, overrides, prompter, options.Discover)
	if err != nil {
		return Configuration{}, err
	}
	resolved.Extensions = extensions
	return resolved, nil
}

func resolveOutputDirectory(workingDirectory string, inputDirectory string, file FileConfiguration, overrides Overrides, prompter Prompter) (string, error) {
	if overrides.OutputDirectory != "" {
		return absoluteFrom(workingDirectory, overrides.OutputDirectory), nil
	}
	if file.OutputDir != "" {
		return absoluteFrom(workingDirectory, file.OutputDir), nil
	}
	defaultOutput := DefaultOutputDirectory(workingDirectory, inputDirectory)
	if prompter == nil {
		return defaultOutput, nil
	}
	answer, err := prompter.OutputDirectory(defaultOutput)
	if err != nil {
		return "", fmt.Errorf(errorPromptFormat, "output directory", err)
	}
	if answer == "" {
		return defaultOutput, nil
	}
	return absoluteFrom(workingDirectory, answer), nil
}

func resolveExtensions(resolved Configuration, file FileConfiguration, overrides Overrides, prompter Prompter, discover DiscoverFunc) ([]string, error) {
	if extensions := filter.NormalizeExtensions(overrides.Extensions); len(extensions) > 0 {
		return extensions, nil
	}
	if extensions := filter.NormalizeExtensions(file.Extensions); len(extensions) > 0 {
		return extensions, nil
	}
	if prompter == nil {
		return nil, ErrNoExtensions
	}
	if discover == nil {
		discover = discoverWithoutLogging
	}
	counts, err := discover(resolved.InputDirectory, resolved.ExclusionSet())
	if err != nil {
		return nil, fmt.Errorf(errorDiscoverFormat, resolved.InputDirectory, err)
	}
	if len(counts) == 0 {
		return nil, ErrNoExtensions
	}
	answer, err := prompter.Extensions(counts)
	if err != nil {
		return nil, fmt.Errorf(errorPromptFormat, "extensions", err)
	}
	extensions := filter.NormalizeExtensions(answer)
	if len(extensions) == 0 {
		return nil, ErrNoExtensions
	}
	return extensions, nil
}

// DefaultOutputDirectory returns ./<input basename> below the working directory,
// or ./<input basename>_markdown when that path is the input directory itself.
func DefaultOutputDirectory(workingDirectory string, inputDirectory string) string {
	outputDirectory := filepath.Join(workingDirectory, filepath.Base(filepath.Clean(inputDirectory)))
	if samePath(outputDirectory, inputDirectory) {
		return outputDirectory + defaultOutputSuffix
	}
	return outputDirectory
}

// samePath compares two paths after resolving symlinks where they exist.
func samePath(first string, second string) bool {
	return canonicalPath(first) == canonicalPath(second)
}

func canonicalPath(candidatePath string) string {
	absolutePath, err := filepath.Abs(candidatePath)
	if err != nil {
		return filepath.Clean(candidatePath)
	}
	if resolvedPath, resolveErr := filepath.EvalSymlinks(absolutePath); resolveErr == nil {
		return resolvedPath
	}
	return filepath.Clean(absolutePath)
}

func discoverWithoutLogging(root string, exclusions filter.ExclusionSet) ([]types.ExtensionCount, error) {
	return walker.DiscoverExtensions(root, exclusions, nil)
}

func requireDirectory(directoryPath string) error {
	info, err := os.Stat(directoryPath)
	if err != nil {
		return fmt.Errorf(errorInputDirectoryFormat, directoryPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf(errorInputDirectoryFormat, directoryPath, walker.ErrNotDirectory)
	}
	return nil
}

func absoluteFrom(workingDirectory string, candidatePath string) string {
	if filepath.IsAbs(candidatePath) {
		return filepath.Clean(candidatePath)
	}
	return filepath.Join(workingDirectory, candidatePath)
}

func firstBool(values ...*bool) bool {
	for _, value := range values {
		if value != nil {
			return *value
		}
	}
	return false
}

func firstString(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
