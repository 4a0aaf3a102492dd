package service

import "testing"

func TestNewResetCode_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := NewResetCode()
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, ch := range code {
			if ch < '0' || ch > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}
