// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/config"
	"github.com/temirov/mdtree/internal/filter"
	"github.com/temirov/mdtree/internal/output"
	"github.com/temirov/mdtree/internal/prompt"
	"github.com/temirov/mdtree/internal/services/clipboard"
	"github.com/temirov/mdtree/internal/tokenizer"
	"github.com/temirov/mdtree/internal/types"
	"github.com/temirov/mdtree/internal/utils"
	"github.com/temirov/mdtree/internal/walker"
)

const (
	rootUse              = "mdtree [input_dir] [output_dir]"
	rootShortDescription = "convert a source tree into Markdown context files"
	rootLongDescription  = `mdtree walks a directory, renders its structure as a text tree and converts
every file with a selected extension into a Markdown block.
Artifacts are written one per source file, or combined into all_files.txt with --single-file.
Missing settings are asked for interactively when standard input is a terminal.`
	rootUsageExample = `  # Convert Python and Markdown files into ./project
  mdtree ./project -x .py,.md

  # Combine everything into one file and copy it to the clipboard
  mdtree ./project ./context --single-file --clipboard -x .go`
	versionTemplate = "mdtree version: {{.Version}}\n"

	extensionsFlagName      = "extensions"
	extensionsFlagShorthand = "x"
	excludeDirFlagName      = "exclude-dir"
	singleFileFlagName      = "single-file"
	clipboardFlagName       = "clipboard"
	tokensFlagName          = "tokens"
	modelFlagName           = "model"
	configFlagName          = "config"
	logLevelFlagName        = "log-level"
	logFileFlagName         = "log-file"

	extensionsFlagDescription = "extensions or file names to convert (repeatable, comma separated)"
	excludeDirFlagDescription = "directory name to exclude (repeatable)"
	singleFileFlagDescription = "write all content into " + types.SingleFileOutputName
	clipboardFlagDescription  = "copy the combined output to the clipboard"
	tokensFlagDescription     = "log the estimated token count of the combined output"
	modelFlagDescription      = "tokenizer model used for token counting"
	configFlagDescription     = "configuration file used instead of ./" + config.ConfigFileName
	logLevelFlagDescription   = "log level (debug, info, warn, error)"
	logFileFlagDescription    = "additional log file path"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	walkErrorFormat             = "walk %s: %w"

	logMessageClipboardFailed = "clipboard copy failed"
	logMessageClipboardCopied = "copied output to clipboard"
	logMessageTokensFailed    = "token counting failed"
	logMessageTokensCounted   = "estimated tokens"
	logMessageResolved        = "resolved configuration"
	logFieldInput             = "input"
	logFieldOutput            = "output"
	logFieldExtensions        = "extensions"
	logFieldExcluded          = "excluded"
	logFieldSingleFile        = "single_file"
	logFieldModel             = "model"
	logFieldTokens            = "tokens"
	logFieldSkipped           = "skipped"
	logFieldBinary            = "binary"
)

// Application holds the streams and services a command run uses.
type Application struct {
	input            io.Reader
	output           io.Writer
	errorOutput      io.Writer
	interactive      bool
	workingDirectory string
	copier           clipboard.Copier
	loggerFactory    func(utils.LoggerOptions) (*zap.Logger, error)
	logger           *zap.Logger
}

// NewApplication returns an Application bound to the process streams.
func NewApplication() *Application {
	return &Application{
		input:         os.Stdin,
		output:        os.Stdout,
		errorOutput:   os.Stderr,
		interactive:   prompt.IsInteractive(os.Stdin),
		copier:        clipboard.NewService(),
		loggerFactory: utils.NewApplicationLogger,
	}
}

// Execute parses arguments and runs the selected command.
func (application *Application) Execute(arguments []string) error {
	rootCommand := application.createRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.Execute()
}

// Logger returns the logger configured from the command line, or a default
// console logger when flags were not parsed.
func (application *Application) Logger() *zap.Logger {
	if application.logger != nil {
		return application.logger
	}
	logger, err := application.loggerFactory(utils.LoggerOptions{})
	if err != nil {
		logger = zap.NewNop()
	}
	application.logger = logger
	return logger
}

// rootOptions stores the values of the root command flags.
type rootOptions struct {
	selection  selectionOptions
	singleFile bool
	clipboard  bool
	tokens     bool
	model      string
	logLevel   string
	logFile    string
}

// selectionOptions stores the flags shared by every command that walks a tree.
type selectionOptions struct {
	configPath          string
	extensions          []string
	excludedDirectories []string
}

func (application *Application) createRootCommand() *cobra.Command {
	var options rootOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Version:       utils.GetApplicationVersion(),
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			logger, err := application.loggerFactory(utils.LoggerOptions{Level: options.logLevel, FilePath: options.logFile})
			if err != nil {
				return err
			}
			application.logger = logger
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runConversion(command, arguments, options)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.SetIn(application.input)
	rootCommand.SetOut(application.output)
	rootCommand.SetErr(application.errorOutput)

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&options.logLevel, logLevelFlagName, utils.DefaultLogLevel, logLevelFlagDescription)
	persistentFlags.StringVar(&options.logFile, logFileFlagName, "", logFileFlagDescription)
	persistentFlags.StringVar(&options.selection.configPath, configFlagName, "", configFlagDescription)

	addSelectionFlags(rootCommand, &options.selection)
	flagSet := rootCommand.Flags()
	registerBooleanFlag(flagSet, &options.singleFile, singleFileFlagName, false, singleFileFlagDescription)
	registerBooleanFlag(flagSet, &options.clipboard, clipboardFlagName, false, clipboardFlagDescription)
	registerBooleanFlag(flagSet, &options.tokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&options.model, modelFlagName, "", modelFlagDescription)

	rootCommand.AddCommand(
		application.createExtensionsCommand(&options.selection),
		application.createTreeCommand(&options.selection),
		application.createInitCommand(),
	)
	return rootCommand
}

// addSelectionFlags registers the extension and exclusion flags on command.
func addSelectionFlags(command *cobra.Command, options *selectionOptions) {
	command.Flags().StringArrayVarP(&options.extensions, extensionsFlagName, extensionsFlagShorthand, nil, extensionsFlagDescription)
	command.Flags().StringArrayVar(&options.excludedDirectories, excludeDirFlagName, nil, excludeDirFlagDescription)
}

// changedBool returns a pointer to value when the flag was given explicitly.
func changedBool(command *cobra.Command, flagName string, value bool) *bool {
	if !command.Flags().Changed(flagName) {
		return nil
	}
	return &value
}

func (application *Application) currentWorkingDirectory() (string, error) {
	if application.workingDirectory != "" {
		return application.workingDirectory, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, err)
	}
	return workingDirectory, nil
}

func (application *Application) loadFileConfiguration(configPath string) (string, config.FileConfiguration, error) {
	workingDirectory, err := application.currentWorkingDirectory()
	if err != nil {
		return "", config.FileConfiguration{}, err
	}
	fileConfiguration, err := config.LoadFileConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: configPath})
	if err != nil {
		return "", config.FileConfiguration{}, err
	}
	return workingDirectory, fileConfiguration, nil
}

// runConversion resolves the configuration, walks the input tree and writes
// the artifacts.
func (application *Application) runConversion(command *cobra.Command, arguments []string, options rootOptions) error {
	logger := application.Logger()
	workingDirectory, fileConfiguration, err := application.loadFileConfiguration(options.selection.configPath)
	if err != nil {
		return err
	}

	overrides := config.Overrides{
		Extensions:          options.selection.extensions,
		ExcludedDirectories: options.selection.excludedDirectories,
		SingleFile:          changedBool(command, singleFileFlagName, options.singleFile),
		Clipboard:           changedBool(command, clipboardFlagName, options.clipboard),
		Tokens:              changedBool(command, tokensFlagName, options.tokens),
		Model:               options.model,
	}
	if len(arguments) > 0 {
		overrides.InputDirectory = arguments[0]
	}
	if len(arguments) > 1 {
		overrides.OutputDirectory = arguments[1]
	}

	var prompter config.Prompter
	if application.interactive {
		prompter = prompt.New(application.input, application.output)
	}
	resolved, err := config.Resolve(config.ResolveOptions{
		WorkingDirectory: workingDirectory,
		File:             fileConfiguration,
		Overrides:        overrides,
		Prompter:         prompter,
		Discover: func(root string, exclusions filter.ExclusionSet) ([]types.ExtensionCount, error) {
			return walker.DiscoverExtensions(root, exclusions, logger)
		},
	})
	if err != nil {
		return err
	}
	logger.Debug(logMessageResolved,
		zap.String(logFieldInput, resolved.InputDirectory),
		zap.String(logFieldOutput, resolved.OutputDirectory),
		zap.Strings(logFieldExtensions, resolved.Extensions),
		zap.Strings(logFieldExcluded, resolved.ExcludedDirectories),
		zap.Bool(logFieldSingleFile, resolved.SingleFile),
	)

	entryWalker := walker.New(resolved.ExtensionFilter(), resolved.ExclusionSet(), logger)
	entryWalker.SkipPath(resolved.OutputDirectory)
	entries, err := entryWalker.Walk(resolved.InputDirectory)
	if err != nil {
		return fmt.Errorf(walkErrorFormat, resolved.InputDirectory, err)
	}

	writer := output.NewWriter(output.Options{
		InputDirectory:  resolved.InputDirectory,
		OutputDirectory: resolved.OutputDirectory,
		SingleFile:      resolved.SingleFile,
	}, logger)
	report, err := writer.Write(entries)
	if err != nil {
		return err
	}

	if resolved.Clipboard {
		application.copyToClipboard(report.Combined, logger)
	}
	if resolved.Tokens.Enabled {
		countTokens(report.Combined, resolved.Tokens.Model, logger)
	}
	logger.Info(report.SummaryLine(),
		zap.String(logFieldOutput, resolved.OutputDirectory),
		zap.Int(logFieldSkipped, report.Skipped),
		zap.Int(logFieldBinary, report.Binary),
	)
	return nil
}

func (application *Application) copyToClipboard(text string, logger *zap.Logger) {
	if application.copier == nil {
		return
	}
	if err := application.copier.Copy(text); err != nil {
		logger.Warn(logMessageClipboardFailed, zap.Error(err))
		return
	}
	logger.Info(logMessageClipboardCopied)
}

func countTokens(text string, model string, logger *zap.Logger) {
	counter, resolvedModel, err := tokenizer.NewCounter(model)
	if err != nil {
		logger.Warn(logMessageTokensFailed, zap.Error(err))
		return
	}
	tokens, err := tokenizer.CountText(counter, text)
	if err != nil {
		logger.Warn(logMessageTokensFailed, zap.Error(err))
		return
	}
	logger.Info(logMessageTokensCounted, zap.String(logFieldModel, resolvedModel), zap.Int(logFieldTokens, tokens))
}
