package session

import (
	"strings"
	"testing"
)

func TestCheckPasswordStrength_Valid(t *testing.T) {
	t.Parallel()

	if err := CheckPasswordStrength("Sup3r!safe"); err != nil {
		t.Fatalf("expected valid password; got %v", err)
	}
}

func TestCheckPasswordStrength_CombinesAllViolations(t *testing.T) {
	t.Parallel()

	err := CheckPasswordStrength("abc")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"6 characters", "uppercase", "number", "special"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in combined message %q", want, msg)
		}
	}
	if strings.Contains(msg, "lowercase") {
		t.Fatalf("lowercase rule is satisfied; got %q", msg)
	}
	if !strings.Contains(msg, "; ") {
		t.Fatalf("expected joined message; got %q", msg)
	}
}
