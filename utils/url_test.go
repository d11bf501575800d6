package utils

import (
	"strings"
	"testing"
)

func TestValidateContentURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		// Allowed
		{"", false},
		{"http://example.com/event", false},
		{"HTTPS://WWW.PARENTMAP.COM/CALENDAR", false},

		// Blocked
		{"javascript:alert(1)", true},
		{"file:///etc/passwd", true},
		{"data:text/plain,hello", true},
	}

	for _, tt := range tests {
		err := ValidateContentURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateContentURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestEncodeURLWithSpaces(t *testing.T) {
	result, err := EncodeURLWithSpaces("https://example.com/images/story time.jpg?size=big one")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result, "story%20time.jpg") {
		t.Errorf("expected encoded spaces in path, got %q", result)
	}
	if !strings.HasSuffix(result, "size=big%20one") {
		t.Errorf("expected encoded spaces in query, got %q", result)
	}
}

func TestResolveContentURL(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"", "/calendar/zoo-day", "https://www.parentmap.com/calendar/zoo-day"},
		{"", "sites/default/files/a b.jpg", "https://www.parentmap.com/sites/default/files/a%20b.jpg"},
		{"", "https://cdn.example.com/img.png", "https://cdn.example.com/img.png"},
		{"http://localhost:8080/", "/e/1", "http://localhost:8080/e/1"},
		{"", "   ", ""},
		{"", "javascript:alert(1)", ""},
	}
	for _, tt := range tests {
		if got := ResolveContentURL(tt.base, tt.ref); got != tt.want {
			t.Errorf("ResolveContentURL(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}
