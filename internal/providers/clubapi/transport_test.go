package clubapi

import (
	"net/http"
	"testing"
	"time"
)

func TestNormalizeBaseURLTrimsTrailingSlashAndDefaults(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"", defaultBaseURL},
		{"https://api.example.com/", "https://api.example.com"},
		{" https://api.example.com ", "https://api.example.com"},
	}

	for _, c := range cases {
		if got := normalizeBaseURL(c.input); got != c.expected {
			t.Fatalf("expected %s, got %s", c.expected, got)
		}
	}
}

func TestResolveHTTPClientDefaultsTimeout(t *testing.T) {
	client := resolveHTTPClient(nil, 0)
	httpClient, ok := client.(*http.Client)
	if !ok {
		t.Fatalf("expected *http.Client, got %T", client)
	}
	if httpClient.Timeout != defaultHTTPTimeout {
		t.Fatalf("expected timeout %s, got %s", defaultHTTPTimeout, httpClient.Timeout)
	}

	custom := resolveHTTPClient(nil, 3*time.Second).(*http.Client)
	if custom.Timeout != 3*time.Second {
		t.Fatalf("expected configured timeout, got %s", custom.Timeout)
	}
}

func TestResolveHTTPClientUsesProvidedClient(t *testing.T) {
	custom := &http.Client{Timeout: 5 * time.Second}
	client := resolveHTTPClient(custom, time.Second)
	if client != custom {
		t.Fatalf("expected provided client to be used")
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		input    string
		expected time.Duration
	}{
		{"", 0},
		{"5", 5 * time.Second},
		{"-1", 0},
		{"garbage", 0},
		{now.Add(30 * time.Second).Format(http.TimeFormat), 30 * time.Second},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0},
	}
	for _, c := range cases {
		if got := parseRetryAfter(c.input, now); got != c.expected {
			t.Fatalf("input %q: expected %s, got %s", c.input, c.expected, got)
		}
	}
}
