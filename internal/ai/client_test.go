package ai

import (
	"strings"
	"testing"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose before fence", "Here is the result:\n```json\n{}\n```", "{}"},
		{"text after fence ignored", "```json\n{}\n```\nLet me know!", "{}"},
		{"surrounding whitespace", "  \n{\"a\":1}\n ", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.in); got != tc.want {
				t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRequireKeys(t *testing.T) {
	payload := map[string]any{"name": "x", "summary": ""}

	if err := requireKeys(payload, "name", "summary"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := requireKeys(payload, "name", "experience", "projects")
	if err == nil {
		t.Fatal("expected an error for missing keys")
	}
	msg := err.Error()
	if !strings.Contains(msg, "experience") || !strings.Contains(msg, "projects") {
		t.Errorf("error %q should name both missing keys", msg)
	}
	if strings.Contains(msg, "name") {
		t.Errorf("error %q should not name present keys", msg)
	}
}
