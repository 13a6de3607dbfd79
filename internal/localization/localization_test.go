package localization

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got := svc.Get("search.complete", map[string]interface{}{"count": 23})
	if !strings.Contains(got, "23") {
		t.Errorf("Get(search.complete) = %q, placeholder not filled", got)
	}

	if got := svc.Get("login.invalid", nil); got == "login.invalid" {
		t.Error("login.invalid key missing from catalog")
	}

	// Unknown keys render as the key itself rather than panicking.
	if got := svc.Get("no.such.key", nil); got != "no.such.key" {
		t.Errorf("Get(no.such.key) = %q, want the key back", got)
	}
}
