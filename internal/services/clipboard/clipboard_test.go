package clipboard

import (
	"errors"
	"testing"

	systemclipboard "github.com/atotto/clipboard"
)

func TestCopyReportsUnsupportedClipboard(t *testing.T) {
	original := systemclipboard.Unsupported
	systemclipboard.Unsupported = true
	t.Cleanup(func() { systemclipboard.Unsupported = original })

	if err := NewService().Copy("context"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
