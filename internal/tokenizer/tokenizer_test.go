package tokenizer

import (
	"errors"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestCountText(t *testing.T) {
	tokens, err := CountText(testCounter{}, "hello")
	if err != nil {
		t.Fatalf("CountText error: %v", err)
	}
	if tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), tokens)
	}
}

func TestCountTextNilCounter(t *testing.T) {
	if _, err := CountText(nil, "hello"); !errors.Is(err, ErrNilCounter) {
		t.Fatalf("expected ErrNilCounter, got %v", err)
	}
}

func TestNewCounterDefault(t *testing.T) {
	counter, model, err := NewCounter("")
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if model != DefaultModel || counter.Name() != DefaultModel {
		t.Fatalf("expected the %s encoding, got model %q counter %q", DefaultModel, model, counter.Name())
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}

func TestNewCounterUnknownModelFallsBack(t *testing.T) {
	counter, model, err := NewCounter("claude-3-opus")
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if model != defaultEncodingName || counter.Name() != defaultEncodingName {
		t.Fatalf("expected fallback encoding, got model %q counter %q", model, counter.Name())
	}
}

func TestNewCounterUsesEmbeddedEncodings(t *testing.T) {
	testCases := []struct {
		model    string
		expected string
	}{
		{model: "gpt-4", expected: "gpt-4"},
		{model: "GPT-3.5-Turbo", expected: "GPT-3.5-Turbo"},
		{model: "text-davinci-003", expected: "text-davinci-003"},
	}
	for _, testCase := range testCases {
		counter, model, err := NewCounter(testCase.model)
		if err != nil {
			t.Fatalf("NewCounter(%q) error: %v", testCase.model, err)
		}
		if model != testCase.expected || counter.Name() == defaultEncodingName {
			t.Errorf("NewCounter(%q) fell back: model %q counter %q", testCase.model, model, counter.Name())
		}
	}
}
