package validate

import (
	"testing"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
)

func TestName(t *testing.T) {
	cases := []struct {
		input      string
		ok         bool
		reason     models.ValidationReason
		normalized string
	}{
		{"John Doe", true, "", "John Doe"},
		{"  Mary   Jane  ", true, "", "Mary Jane"},
		{"O'Brien", true, "", "O'Brien"},
		{"Jean-Claude", true, "", "Jean-Claude"},
		{"", false, models.ReasonEmpty, ""},
		{"   ", false, models.ReasonEmpty, ""},
		{"A", false, models.ReasonTooShort, ""},
		{"John123", false, models.ReasonInvalid, ""},
		{"J@ne", false, models.ReasonInvalid, ""},
	}
	for _, tc := range cases {
		res := Name(tc.input)
		if res.OK != tc.ok {
			t.Errorf("Name(%q).OK = %v, want %v", tc.input, res.OK, tc.ok)
			continue
		}
		if tc.ok && res.Normalized != tc.normalized {
			t.Errorf("Name(%q) normalized = %q, want %q", tc.input, res.Normalized, tc.normalized)
		}
		if !tc.ok && res.Reason != tc.reason {
			t.Errorf("Name(%q) reason = %s, want %s", tc.input, res.Reason, tc.reason)
		}
	}
}

func TestNameTooLong(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	res := Name(string(long))
	if res.OK || res.Reason != models.ReasonTooLong {
		t.Errorf("expected too_long for 101 character name, got %+v", res)
	}
}

func TestEmail(t *testing.T) {
	res := Email("  John.Doe@Example.COM ")
	if !res.OK {
		t.Fatalf("expected valid email, got reason %s", res.Reason)
	}
	if res.Normalized != "john.doe@example.com" {
		t.Errorf("normalized = %q, want lower-cased trimmed address", res.Normalized)
	}

	for _, bad := range []string{"", "not-an-email", "a@b", "user@domain", "@example.com", "user@.com"} {
		if res := Email(bad); res.OK {
			t.Errorf("Email(%q) unexpectedly valid", bad)
		}
	}
}

func TestPhone(t *testing.T) {
	valid := []string{"+1 (555) 123-4567", "5551234567", "+44 20 7946 0958", "555.123.4567"}
	for _, v := range valid {
		if res := Phone(v); !res.OK {
			t.Errorf("Phone(%q) rejected with reason %s", v, res.Reason)
		}
	}

	invalid := []string{"", "12345", "abcdefghij", "0123456789", "+1234567890123456789"}
	for _, v := range invalid {
		if res := Phone(v); res.OK {
			t.Errorf("Phone(%q) unexpectedly valid", v)
		}
	}

	// The raw trimmed form is stored, not the cleaned digits.
	if res := Phone(" +1 (555) 123-4567 "); res.Normalized != "+1 (555) 123-4567" {
		t.Errorf("Phone normalized = %q, want raw trimmed input", res.Normalized)
	}
}

func TestExperience(t *testing.T) {
	years, res := Experience("I have 5 years of experience")
	if !res.OK || years != 5 {
		t.Errorf("expected 5 years extracted, got %d (ok=%v)", years, res.OK)
	}

	years, res = Experience("0")
	if !res.OK || years != 0 {
		t.Errorf("expected 0 years accepted, got %d (ok=%v)", years, res.OK)
	}

	if _, res := Experience(""); res.OK || res.Reason != models.ReasonEmpty {
		t.Errorf("expected empty reason, got %+v", res)
	}
	if _, res := Experience("a few"); res.OK || res.Reason != models.ReasonInvalid {
		t.Errorf("expected invalid reason for no digits, got %+v", res)
	}
	if _, res := Experience("-3"); res.OK || res.Reason != models.ReasonNegative {
		t.Errorf("expected negative reason, got %+v", res)
	}
	if _, res := Experience("55 years"); res.OK || res.Reason != models.ReasonTooHigh {
		t.Errorf("expected too_high reason, got %+v", res)
	}
}

func TestExtractIntegers(t *testing.T) {
	got := ExtractIntegers("between 3 and 5 years, started in 2019")
	want := []int{3, 5, 2019}
	if len(got) != len(want) {
		t.Fatalf("ExtractIntegers returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExtractIntegers[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTechStack(t *testing.T) {
	if res := TechStack("Python, Django, PostgreSQL"); !res.OK {
		t.Errorf("expected valid tech stack, got reason %s", res.Reason)
	}
	if res := TechStack(""); res.OK || res.Reason != models.ReasonEmpty {
		t.Errorf("expected empty reason, got %+v", res)
	}
	if res := TechStack("Go"); res.OK || res.Reason != models.ReasonTooShort {
		t.Errorf("expected too_short reason for 2 characters, got %+v", res)
	}
}

func TestIsExitKeyword(t *testing.T) {
	for _, kw := range []string{"quit", "EXIT", " Bye ", "goodbye", "stop", "end", "cancel", "terminate"} {
		if !IsExitKeyword(kw) {
			t.Errorf("IsExitKeyword(%q) = false, want true", kw)
		}
	}
	for _, text := range []string{"I want to quit my job", "stopping", "", "by"} {
		if IsExitKeyword(text) {
			t.Errorf("IsExitKeyword(%q) = true, want false", text)
		}
	}
}
