package main

import (
	"strings"
	"testing"
)

func TestActionValidate(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		wantErr bool
	}{
		{"valid click", Action{Kind: "click", Selector: "#go"}, false},
		{"valid navigate", Action{Kind: "navigate", URL: "http://localhost:3000"}, false},
		{"valid type without value", Action{Kind: "type", Selector: "#q"}, false},
		{"valid assertText", Action{Kind: "assertText", Selector: "h1", Contains: "Welcome"}, false},
		{"unknown kind", Action{Kind: "hover", Selector: "#x"}, true},
		{"click without selector", Action{Kind: "click"}, true},
		{"navigate without url", Action{Kind: "navigate"}, true},
		{"assertText without contains", Action{Kind: "assertText", Selector: "h1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestActionDescribe(t *testing.T) {
	tests := []struct {
		action   Action
		expected string
	}{
		{Action{Kind: "navigate", URL: "http://x"}, "navigate to http://x"},
		{Action{Kind: "click", Selector: "#go"}, "click #go"},
		{Action{Kind: "type", Selector: "#q", Value: "golang"}, `type "golang" into #q`},
		{Action{Kind: "assertText", Selector: "h1", Contains: "Hi"}, `assert h1 contains "Hi"`},
	}

	for _, tt := range tests {
		if got := tt.action.Describe(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestActionCode(t *testing.T) {
	// Every valid kind must produce a replayable statement
	for kind := range validActionKinds {
		action := Action{Kind: kind, Selector: "#x", URL: "http://x", Value: "v", Contains: "c"}
		code := action.Code()
		if code == "" {
			t.Errorf("action %s produced no code", kind)
		}
		if !strings.Contains(code, "chromedp.") {
			t.Errorf("action %s code does not use chromedp: %s", kind, code)
		}
	}

	click := Action{Kind: "click", Selector: "#submit"}
	if !strings.Contains(click.Code(), `chromedp.Click("#submit"`) {
		t.Errorf("unexpected click code: %s", click.Code())
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 10); got != "short" {
		t.Errorf("expected 'short', got '%s'", got)
	}
	if got := truncateText("a very long piece of text", 6); got != "a very..." {
		t.Errorf("expected truncation, got '%s'", got)
	}
}
