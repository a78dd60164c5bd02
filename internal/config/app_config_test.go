package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create config directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadFileConfiguration(t *testing.T) {
	testCases := []struct {
		name          string
		globalContent string
		localContent  string
		assert        func(t *testing.T, workingDirectory string, config FileConfiguration)
	}{
		{
			name: "no files",
			assert: func(t *testing.T, _ string, config FileConfiguration) {
				if len(config.Extensions) != 0 || config.SingleFile != nil || config.OutputDir != "" {
					t.Fatalf("expected empty configuration, got %+v", config)
				}
			},
		},
		{
			name:          "global only",
			globalContent: "extensions: [.py, .md]\nsingle_file: true\ntokens:\n  enabled: true\n  model: gpt-4\n",
			assert: func(t *testing.T, _ string, config FileConfiguration) {
				if !reflect.DeepEqual(config.Extensions, []string{".py", ".md"}) {
					t.Fatalf("unexpected extensions %v", config.Extensions)
				}
				if config.SingleFile == nil || !*config.SingleFile {
					t.Fatalf("expected single_file true")
				}
				if config.Tokens.Enabled == nil || !*config.Tokens.Enabled || config.Tokens.Model != "gpt-4" {
					t.Fatalf("unexpected tokens %+v", config.Tokens)
				}
			},
		},
		{
			name:          "local overrides global",
			globalContent: "extensions: [.py]\nexclude_dirs: [build]\nsingle_file: true\nclipboard: true\n",
			localContent:  "extensions: [.go]\nexclude_dirs: [dist]\nsingle_file: false\noutput_dir: out\n",
			assert: func(t *testing.T, workingDirectory string, config FileConfiguration) {
				if !reflect.DeepEqual(config.Extensions, []string{".go"}) {
					t.Fatalf("expected local extensions, got %v", config.Extensions)
				}
				if !reflect.DeepEqual(config.ExcludeDirs, []string{"build", "dist"}) {
					t.Fatalf("expected accumulated exclusions, got %v", config.ExcludeDirs)
				}
				if config.SingleFile == nil || *config.SingleFile {
					t.Fatalf("expected local single_file false")
				}
				if config.Clipboard == nil || !*config.Clipboard {
					t.Fatalf("expected global clipboard to survive")
				}
				if config.OutputDir != filepath.Join(workingDirectory, "out") {
					t.Fatalf("expected output_dir relative to working directory, got %s", config.OutputDir)
				}
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			t.Setenv("HOME", homeDirectory)
			t.Setenv("USERPROFILE", homeDirectory)
			workingDirectory := t.TempDir()
			if testCase.globalContent != "" {
				writeConfigFile(t, filepath.Join(homeDirectory, GlobalConfigDirectoryName, GlobalConfigFileName), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeConfigFile(t, filepath.Join(workingDirectory, ConfigFileName), testCase.localContent)
			}
			loaded, err := LoadFileConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
			if err != nil {
				t.Fatalf("LoadFileConfiguration failed: %v", err)
			}
			testCase.assert(t, workingDirectory, loaded)
		})
	}
}

func TestLoadFileConfigurationExplicitPath(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	workingDirectory := t.TempDir()
	writeConfigFile(t, filepath.Join(workingDirectory, ConfigFileName), "extensions: [.py]\n")
	writeConfigFile(t, filepath.Join(workingDirectory, "custom.yaml"), "extensions: [.rs]\n")

	loaded, err := LoadFileConfiguration(LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: "custom.yaml"})
	if err != nil {
		t.Fatalf("LoadFileConfiguration failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Extensions, []string{".rs"}) {
		t.Fatalf("expected explicit configuration to replace the local file, got %v", loaded.Extensions)
	}

	_, missingErr := LoadFileConfiguration(LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: "absent.yaml"})
	if missingErr == nil {
		t.Fatalf("expected an error for a missing explicit configuration")
	}
}

func TestLoadFileConfigurationRejectsMalformedYAML(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	workingDirectory := t.TempDir()
	writeConfigFile(t, filepath.Join(workingDirectory, ConfigFileName), "extensions: [.py\n")

	_, err := LoadFileConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if err == nil || !strings.Contains(err.Error(), ConfigFileName) {
		t.Fatalf("expected a read error naming the file, got %v", err)
	}
}
