package model

import "testing"

func TestParseInterval(t *testing.T) {
	for _, s := range []string{"1h", "1D", " 1wk "} {
		if _, err := ParseInterval(s); err != nil {
			t.Errorf("ParseInterval(%q): %v", s, err)
		}
	}
	if _, err := ParseInterval("2h"); err == nil {
		t.Error("expected error for 2h")
	}
}

func TestParseLookback(t *testing.T) {
	lb, err := ParseLookback("1MO")
	if err != nil || lb != Lookback1mo {
		t.Fatalf("ParseLookback = %q, %v", lb, err)
	}
	if lb.Duration() <= 0 {
		t.Error("expected positive duration")
	}
	if _, err := ParseLookback("10y"); err == nil {
		t.Error("expected error for 10y")
	}
}
