package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `# mdtree configuration
# File extensions (or bare file names such as Makefile) to convert.
extensions: []
# Directory names pruned in addition to .git, .terraform and node_modules.
exclude_dirs: []
# Output directory; defaults to ./<input directory name>.
output_dir: ""
# Write all content into all_files.txt instead of one file per source.
# Left unset, interactive runs ask.
# single_file: false
# Copy the combined output to the system clipboard.
# clipboard: false
tokens:
  enabled: false
  model: gpt-4
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, ConfigFileName)
	case InitTargetGlobal:
		globalPath, err := GlobalConfigPath()
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(filepath.Dir(globalPath), 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", filepath.Dir(globalPath), err)
		}
		destinationPath = globalPath
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
