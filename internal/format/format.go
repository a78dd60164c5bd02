// Package format converts file bytes into Markdown blocks.
package format

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/temirov/mdtree/internal/filter"
	"github.com/temirov/mdtree/internal/types"
	"github.com/temirov/mdtree/internal/utils"
)

const (
	fileContentsHeader   = "# File Contents:\n"
	fileNameHeaderPrefix = "# File Name: "

	binaryContentOmitted = "(binary content omitted)"

	fenceRune         = '`'
	minimumFenceWidth = 3
	replacementRune   = "�"
)

// languageTags maps selection keys to the fence language understood by common
// Markdown renderers. Unlisted extensions use the extension without its dot.
var languageTags = map[string]string{
	".py":         "python",
	".js":         "javascript",
	".mjs":        "javascript",
	".cjs":        "javascript",
	".jsx":        "jsx",
	".ts":         "typescript",
	".tsx":        "tsx",
	".rb":         "ruby",
	".rs":         "rust",
	".kt":         "kotlin",
	".cs":         "csharp",
	".sh":         "bash",
	".zsh":        "bash",
	".ps1":        "powershell",
	".yml":        "yaml",
	".md":         "markdown",
	".tf":         "hcl",
	".tfvars":     "hcl",
	".h":          "c",
	".hpp":        "cpp",
	".cc":         "cpp",
	".htm":        "html",
	"Dockerfile":  "dockerfile",
	"Makefile":    "makefile",
	".gitignore":  "gitignore",
	".dockerfile": "dockerfile",
}

// LanguageTag returns the fence language for a file name, or an empty string
// for files without an extension or known name.
func LanguageTag(name string) string {
	key := filter.Key(name)
	if tag, known := languageTags[key]; known {
		return tag
	}
	extension := filter.SplitExtension(name)
	if extension == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(extension, "."))
}

// Decode converts file bytes to text. A UTF-8 or UTF-16 byte order mark selects
// the encoding; invalid sequences become U+FFFD instead of failing.
func Decode(data []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, decodeError := transform.Bytes(decoder, data)
	if decodeError != nil {
		return strings.ToValidUTF8(string(data), replacementRune)
	}
	return string(decoded)
}

// Block wraps content in the Markdown layout used for every file. Without a
// language tag the content is emitted unfenced.
func Block(relativePath string, language string, content string) string {
	var builder strings.Builder
	builder.WriteString(fileNameHeaderPrefix + relativePath + "\n")
	builder.WriteString(fileContentsHeader)
	if language == "" {
		builder.WriteString(content + "\n\n")
		return builder.String()
	}
	fence := strings.Repeat(string(fenceRune), fenceWidth(content))
	builder.WriteString(fence + language + "\n")
	builder.WriteString(content + "\n")
	builder.WriteString(fence + "\n\n")
	return builder.String()
}

// FormatFile produces the block for one file's bytes.
func FormatFile(entry types.Entry, data []byte) types.FileBlock {
	language := LanguageTag(entry.Name)
	block := types.FileBlock{
		RelativePath: entry.RelativePath,
		Language:     language,
		SizeBytes:    int64(len(data)),
	}
	if utils.IsBinary(data) {
		block.IsBinary = true
		block.Text = Block(entry.RelativePath, "", binaryContentOmitted)
		return block
	}
	block.Text = Block(entry.RelativePath, language, Decode(data))
	return block
}

// fenceWidth returns a fence longer than any backtick run inside content.
func fenceWidth(content string) int {
	longestRun := 0
	currentRun := 0
	for _, character := range content {
		if character == fenceRune {
			currentRun++
			if currentRun > longestRun {
				longestRun = currentRun
			}
			continue
		}
		currentRun = 0
	}
	if longestRun < minimumFenceWidth {
		return minimumFenceWidth
	}
	return longestRun + 1
}
