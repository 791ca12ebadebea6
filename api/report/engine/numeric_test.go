package engine

import "testing"

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"  42.5  ", 42.5, true},
		{"-3.25", -3.25, true},
		{"0", 0, true},
		{"1,5", 1.5, true},
		{"1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"1 234,56", 1234.56, true},
		{"1'234.5", 1234.5, true},
		{"1.234.567", 1234567, true},
		{"1,234,567", 1234567, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"12x", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumeric(c.in)
		if ok != c.ok {
			t.Errorf("ParseNumeric(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParseNumeric(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseNumericFailureIsNotZero(t *testing.T) {
	// An unparsable value must be reported as absent, not coerced to 0:
	// the two states are distinguishable only through ok.
	if _, ok := ParseNumeric("n/a"); ok {
		t.Fatal("expected ok=false for unparsable input")
	}
	if v, ok := ParseNumeric("0"); !ok || v != 0 {
		t.Fatalf("explicit zero must parse: got %v ok=%v", v, ok)
	}
}
