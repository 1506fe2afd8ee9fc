package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/api/books", "/api/books"},
		{"/api/books/0b6c2f5e-8d4a-4c1e-9f3b-2a7d5e9c1b4a", "/api/books/{id}"},
		{"/api/books/0B6C2F5E-8D4A-4C1E-9F3B-2A7D5E9C1B4A/extra", "/api/books/{id}/extra"},
		{"/api/audit/42", "/api/audit/{id}"},
		{"/health", "/health"},
	}
	for _, c := range cases {
		if got := NormalizePath(c.in); got != c.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func authAttempts(t *testing.T, operation, outcome string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "auth_attempts_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["operation"] == operation && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestIncAuthAttempt(t *testing.T) {
	before := authAttempts(t, "login", "rejected")
	IncAuthAttempt("login", "rejected")
	if got := authAttempts(t, "login", "rejected"); got-before != 1 {
		t.Errorf("expected counter to grow by 1, got %v -> %v", before, got)
	}
}
