// Package output persists the rendered tree and formatted file blocks.
package output

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/format"
	"github.com/temirov/mdtree/internal/tree"
	"github.com/temirov/mdtree/internal/types"
	"github.com/temirov/mdtree/internal/utils"
)

const (
	directoryPermissions = 0o755
	filePermissions      = 0o644

	errorCreateDirectoryFormat = "create output directory %s: %w"
	errorWriteFileFormat       = "write %s: %w"

	infoArtifactWritten  = "artifact written"
	infoFileConverted    = "markdown file created"
	warningReadFailed    = "skipping unreadable file"
	warningBinaryFile    = "binary content omitted"
	warningNameCollision = "artifact name already used by another file; writing with a numeric suffix"

	logFieldPath         = "path"
	logFieldCollidesWith = "collides_with"
	logFieldArtifact     = "artifact"

	collisionSuffixFormat = "%s_%d%s"

	summaryLineFormat = "Summary: %d %s, %s"
)

var (
	invalidNameCharacters = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	separatorRuns         = regexp.MustCompile(`[-\s]+`)
)

// Options selects where and how artifacts are written.
type Options struct {
	InputDirectory  string
	OutputDirectory string
	SingleFile      bool
}

// Report describes what a Write call produced.
type Report struct {
	Tree      tree.Result
	Combined  string
	Artifacts []string
	Converted int
	Binary    int
	Skipped   int
	Bytes     int64
}

// SummaryLine renders the converted file count and total size.
func (report Report) SummaryLine() string {
	label := "files"
	if report.Converted == 1 {
		label = "file"
	}
	return fmt.Sprintf(summaryLineFormat, report.Converted, label, utils.FormatFileSize(report.Bytes))
}

// Writer writes run artifacts into the output directory.
type Writer struct {
	options Options
	logger  *zap.Logger
}

// NewWriter constructs a Writer.
func NewWriter(options Options, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{options: options, logger: logger}
}

// SanitiseFileName converts a relative path into a flat, lower-case artifact
// base name: characters other than letters, digits, underscores, hyphens and
// whitespace become underscores, and runs of hyphens or whitespace collapse into
// one underscore.
func SanitiseFileName(relativePath string) string {
	replaced := invalidNameCharacters.ReplaceAllString(relativePath, "_")
	lowered := strings.ToLower(strings.TrimSpace(replaced))
	return separatorRuns.ReplaceAllString(lowered, "_")
}

// PerFilePath returns the artifact path for a source file in per-file mode.
// The artifact lives in the mirrored source directory.
func PerFilePath(outputDirectory string, relativePath string) string {
	relativeDirectory := path.Dir(relativePath)
	return filepath.Join(outputDirectory, filepath.FromSlash(relativeDirectory), SanitiseFileName(relativePath)+types.PerFileOutputExtension)
}

// Write renders the tree for entries, converts every file entry and persists
// the artifacts. Unreadable files are logged and skipped.
func (writer *Writer) Write(entries []types.Entry) (Report, error) {
	outputDirectory := writer.options.OutputDirectory
	if makeError := os.MkdirAll(outputDirectory, directoryPermissions); makeError != nil {
		return Report{}, fmt.Errorf(errorCreateDirectoryFormat, outputDirectory, makeError)
	}

	report := Report{Tree: tree.Render(entries)}
	treePath := filepath.Join(outputDirectory, types.DirectoryTreeFileName)
	if writeError := writer.writeArtifact(treePath, report.Tree.String()); writeError != nil {
		return Report{}, writeError
	}
	writer.logger.Info(infoArtifactWritten, zap.String(logFieldPath, treePath))
	report.Artifacts = append(report.Artifacts, treePath)

	var blockTexts []string
	artifactSources := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		sourcePath := filepath.Join(writer.options.InputDirectory, filepath.FromSlash(entry.RelativePath))
		// #nosec G304
		data, readError := os.ReadFile(sourcePath)
		if readError != nil {
			writer.logger.Warn(warningReadFailed, zap.String(logFieldPath, sourcePath), zap.Error(readError))
			report.Skipped++
			continue
		}
		block := format.FormatFile(entry, data)
		if block.IsBinary {
			writer.logger.Warn(warningBinaryFile, zap.String(logFieldPath, sourcePath))
			report.Binary++
		}
		report.Converted++
		report.Bytes += block.SizeBytes
		blockTexts = append(blockTexts, block.Text)

		if writer.options.SingleFile {
			continue
		}
		basePath := PerFilePath(outputDirectory, entry.RelativePath)
		artifactPath := uniqueArtifactPath(basePath, artifactSources)
		if artifactPath != basePath {
			writer.logger.Warn(warningNameCollision,
				zap.String(logFieldPath, sourcePath),
				zap.String(logFieldCollidesWith, artifactSources[basePath]),
				zap.String(logFieldArtifact, artifactPath),
			)
		}
		artifactSources[artifactPath] = sourcePath
		if makeError := os.MkdirAll(filepath.Dir(artifactPath), directoryPermissions); makeError != nil {
			return Report{}, fmt.Errorf(errorCreateDirectoryFormat, filepath.Dir(artifactPath), makeError)
		}
		if writeError := writer.writeArtifact(artifactPath, block.Text); writeError != nil {
			return Report{}, writeError
		}
		writer.logger.Debug(infoFileConverted, zap.String(logFieldPath, artifactPath))
		report.Artifacts = append(report.Artifacts, artifactPath)
	}

	report.Combined = report.Tree.String() + "\n" + strings.Join(blockTexts, types.BlockSeparator)
	if writer.options.SingleFile {
		singlePath := filepath.Join(outputDirectory, types.SingleFileOutputName)
		if writeError := writer.writeArtifact(singlePath, report.Combined); writeError != nil {
			return Report{}, writeError
		}
		writer.logger.Info(infoArtifactWritten, zap.String(logFieldPath, singlePath))
		report.Artifacts = append(report.Artifacts, singlePath)
	}
	return report, nil
}

// uniqueArtifactPath returns artifactPath, or the first "_<n>" variant of it
// that is not yet taken. Distinct sources can sanitise to the same name.
func uniqueArtifactPath(artifactPath string, taken map[string]string) string {
	if _, used := taken[artifactPath]; !used {
		return artifactPath
	}
	stem := strings.TrimSuffix(artifactPath, types.PerFileOutputExtension)
	for index := 2; ; index++ {
		candidate := fmt.Sprintf(collisionSuffixFormat, stem, index, types.PerFileOutputExtension)
		if _, used := taken[candidate]; !used {
			return candidate
		}
	}
}

func (writer *Writer) writeArtifact(artifactPath string, content string) error {
	if writeError := os.WriteFile(artifactPath, []byte(content), filePermissions); writeError != nil {
		return fmt.Errorf(errorWriteFileFormat, artifactPath, writeError)
	}
	return nil
}
