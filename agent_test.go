package main

import (
	"strings"
	"testing"
)

func TestParseActions(t *testing.T) {
	text := `[
		{"action": "type", "selector": "#email", "value": "user@example.com"},
		{"action": "click", "selector": "button[type=\"submit\"]"}
	]`

	actions, err := ParseActions(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0].Kind != "type" || actions[0].Value != "user@example.com" {
		t.Errorf("unexpected first action: %+v", actions[0])
	}
	if actions[1].Selector != `button[type="submit"]` {
		t.Errorf("unexpected selector: %s", actions[1].Selector)
	}
}

func TestParseActions_ToleratesFencesAndProse(t *testing.T) {
	text := "Here are the actions:\n```json\n[{\"action\": \"click\", \"selector\": \"#go\"}]\n```\nDone."

	actions, err := ParseActions(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Kind != "click" {
		t.Errorf("unexpected actions: %+v", actions)
	}
}

func TestParseActions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{"no array", "I cannot help with that.", "no JSON action array"},
		{"empty array", "[]", "no actions"},
		{"invalid json", "[{broken]", "invalid action array"},
		{"unknown action", `[{"action": "hover", "selector": "#x"}]`, "unknown action"},
		{"missing selector", `[{"action": "click"}]`, "requires selector"},
		{"missing url", `[{"action": "navigate"}]`, "requires url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseActions(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"bare array", `[1, 2]`, `[1, 2]`},
		{"surrounded by prose", `sure: [1, 2] done`, `[1, 2]`},
		{"nested arrays", `[[1], [2]]`, `[[1], [2]]`},
		{"brackets inside strings", `[{"selector": "a[href]"}]`, `[{"selector": "a[href]"}]`},
		{"escaped quotes in strings", `[{"value": "say \"hi[\""}]`, `[{"value": "say \"hi[\""}]`},
		{"no array", "nothing here", ""},
		{"unclosed array", "[1, 2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONArray(tt.text); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
