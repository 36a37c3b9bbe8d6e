package extract

import "testing"

func TestValidDOB(t *testing.T) {
	valid := []string{
		"01/15/1990",
		"1/2/1985",
		"12/31/2000",
		"02/29/2020", // leap year
		"1990-01-15",
	}
	for _, s := range valid {
		if !ValidDOB(s) {
			t.Errorf("ValidDOB(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"13/01/1990",
		"02/30/1999",
		"02/29/2019", // not a leap year
		"01-15-1990x",
		"January 15 1990",
		"15/01/1990",
	}
	for _, s := range invalid {
		if ValidDOB(s) {
			t.Errorf("ValidDOB(%q) = true, want false", s)
		}
	}
}

func TestCanonicalDOB(t *testing.T) {
	if got := CanonicalDOB("1/2/1985"); got != "01/02/1985" {
		t.Errorf("CanonicalDOB(1/2/1985) = %q", got)
	}
	if got := CanonicalDOB("1990-01-15"); got != "01/15/1990" {
		t.Errorf("CanonicalDOB(1990-01-15) = %q", got)
	}
	if got := CanonicalDOB("nonsense"); got != "nonsense" {
		t.Errorf("CanonicalDOB(nonsense) = %q", got)
	}
}

func TestValidEmail(t *testing.T) {
	if !ValidEmail("a.b+c@example.co") {
		t.Error("expected valid email")
	}
	for _, s := range []string{"", "plainaddress", "a@b", "a b@example.com"} {
		if ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = true, want false", s)
		}
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"5551234567", "(555) 123-4567", "555-123-4567", "+1 555 123 4567", "1-555-123-4567"}
	for _, s := range valid {
		if !ValidPhone(s) {
			t.Errorf("ValidPhone(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "12345", "555-123-456", "phone me"}
	for _, s := range invalid {
		if ValidPhone(s) {
			t.Errorf("ValidPhone(%q) = true, want false", s)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	if got := FormatPhone("15551234567"); got != "(555) 123-4567" {
		t.Errorf("FormatPhone = %q", got)
	}
	if got := FormatPhone("555.123.4567"); got != "(555) 123-4567" {
		t.Errorf("FormatPhone = %q", got)
	}
	if got := FormatPhone("123"); got != "123" {
		t.Errorf("FormatPhone(123) = %q", got)
	}
}
