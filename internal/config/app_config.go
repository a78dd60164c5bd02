// Package config loads configuration files and resolves the settings of a run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/mdtree/internal/utils"
)

const (
	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".mdtree.yaml"
	// GlobalConfigDirectoryName is the directory below the home directory holding the global configuration.
	GlobalConfigDirectoryName = ".mdtree"
	// GlobalConfigFileName is the file name of the global configuration.
	GlobalConfigFileName = "config.yaml"
)

// LoadOptions controls how configuration files are discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// FileConfiguration mirrors the keys accepted in configuration files. Pointer
// fields distinguish an explicit false from an absent key.
type FileConfiguration struct {
	Extensions  []string           `mapstructure:"extensions"`
	ExcludeDirs []string           `mapstructure:"exclude_dirs"`
	OutputDir   string             `mapstructure:"output_dir"`
	SingleFile  *bool              `mapstructure:"single_file"`
	Clipboard   *bool              `mapstructure:"clipboard"`
	Tokens      TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// GlobalConfigPath returns the global configuration path for the current user.
func GlobalConfigPath() (string, error) {
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDirectory, GlobalConfigDirectoryName, GlobalConfigFileName), nil
}

// LoadFileConfiguration loads the global configuration and overlays the local
// or explicitly requested one. Missing files are not an error.
func LoadFileConfiguration(options LoadOptions) (FileConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return FileConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged FileConfiguration

	if globalPath, err := GlobalConfigPath(); err == nil {
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return FileConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return FileConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	if merged.OutputDir != "" && !filepath.IsAbs(merged.OutputDir) {
		merged.OutputDir = filepath.Join(workingDirectory, merged.OutputDir)
	}
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string, required bool) (FileConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return FileConfiguration{}, nil
		}
		return FileConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return FileConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return FileConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config FileConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return FileConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver. Extensions and scalar values are
// replaced; excluded directories accumulate.
func (config FileConfiguration) Merge(override FileConfiguration) FileConfiguration {
	result := config
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string{}, override.Extensions...)
	}
	if len(override.ExcludeDirs) > 0 {
		result.ExcludeDirs = utils.DeduplicatePatterns(append(append([]string{}, config.ExcludeDirs...), override.ExcludeDirs...))
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.SingleFile != nil {
		result.SingleFile = cloneBool(override.SingleFile)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
