package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/mdtree/internal/config"
	"github.com/temirov/mdtree/internal/filter"
	"github.com/temirov/mdtree/internal/tree"
	"github.com/temirov/mdtree/internal/walker"
)

const (
	defaultPath = "."

	extensionsUse              = "extensions [input_dir]"
	extensionsAlias            = "ext"
	extensionsShortDescription = "list the extensions found below a directory (" + extensionsAlias + ")"
	extensionLineFormat        = "%-16s %d\n"

	treeUse              = "tree [input_dir]"
	treeAlias            = "t"
	treeShortDescription = "print the directory tree (" + treeAlias + ")"
	treeLongDescription  = `Print the directory tree without writing any artifacts.
Only files with the selected extensions are listed; without a selection every file is listed.`

	initUse               = "init"
	initShortDescription  = "write a default configuration file"
	globalFlagName        = "global"
	globalFlagDescription = "write the global configuration instead of ./" + config.ConfigFileName
	forceFlagName         = "force"
	forceFlagDescription  = "overwrite an existing configuration file"
	initWrittenFormat     = "configuration written to %s\n"
)

func inputDirectoryArgument(arguments []string) string {
	if len(arguments) == 0 {
		return defaultPath
	}
	return arguments[0]
}

// exclusionSet merges configured and flag exclusions with the defaults.
func exclusionSet(fileConfiguration config.FileConfiguration, options *selectionOptions) filter.ExclusionSet {
	excluded := append(append([]string{}, fileConfiguration.ExcludeDirs...), options.excludedDirectories...)
	return filter.NewExclusionSet(excluded)
}

func (application *Application) createExtensionsCommand(options *selectionOptions) *cobra.Command {
	extensionsCommand := &cobra.Command{
		Use:     extensionsUse,
		Aliases: []string{extensionsAlias},
		Short:   extensionsShortDescription,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			_, fileConfiguration, err := application.loadFileConfiguration(options.configPath)
			if err != nil {
				return err
			}
			counts, err := walker.DiscoverExtensions(inputDirectoryArgument(arguments), exclusionSet(fileConfiguration, options), application.Logger())
			if err != nil {
				return err
			}
			for _, count := range counts {
				fmt.Fprintf(command.OutOrStdout(), extensionLineFormat, count.Key, count.Count)
			}
			return nil
		},
	}
	extensionsCommand.Flags().StringArrayVar(&options.excludedDirectories, excludeDirFlagName, nil, excludeDirFlagDescription)
	return extensionsCommand
}

func (application *Application) createTreeCommand(options *selectionOptions) *cobra.Command {
	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			_, fileConfiguration, err := application.loadFileConfiguration(options.configPath)
			if err != nil {
				return err
			}
			exclusions := exclusionSet(fileConfiguration, options)
			extensions := filter.NormalizeExtensions(options.extensions)
			if len(extensions) == 0 {
				extensions = filter.NormalizeExtensions(fileConfiguration.Extensions)
			}
			entryWalker := walker.NewUnfiltered(exclusions, application.Logger())
			if len(extensions) > 0 {
				entryWalker = walker.New(filter.NewExtensionFilter(extensions), exclusions, application.Logger())
			}
			entries, err := entryWalker.Walk(inputDirectoryArgument(arguments))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(command.OutOrStdout(), tree.Render(entries).String())
			return err
		},
	}
	addSelectionFlags(treeCommand, options)
	return treeCommand
}

func (application *Application) createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, err := application.currentWorkingDirectory()
			if err != nil {
				return err
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destination, err := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force, WorkingDirectory: workingDirectory})
			if err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(), initWrittenFormat, destination)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
