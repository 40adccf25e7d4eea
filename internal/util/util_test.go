package util

import "testing"

func TestParseBoolEnv(t *testing.T) {
	t.Setenv("SCREENFLOW_TEST_BOOL", "yes")
	if !ParseBoolEnv("SCREENFLOW_TEST_BOOL", false) {
		t.Error("expected yes to parse as true")
	}

	t.Setenv("SCREENFLOW_TEST_BOOL", "off")
	if ParseBoolEnv("SCREENFLOW_TEST_BOOL", true) {
		t.Error("expected off to parse as false")
	}

	t.Setenv("SCREENFLOW_TEST_BOOL", "banana")
	if !ParseBoolEnv("SCREENFLOW_TEST_BOOL", true) {
		t.Error("expected invalid value to fall back to default")
	}

	t.Setenv("SCREENFLOW_TEST_BOOL", "")
	if ParseBoolEnv("SCREENFLOW_TEST_BOOL", false) {
		t.Error("expected unset value to fall back to default")
	}
}

func TestMaskSensitive(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"john.doe@example.com", "jo******@example.com"},
		{"a@example.com", "a@example.com"},
		{"+15551234567", "********4567"},
		{"1234", "****"},
	}
	for _, tc := range cases {
		if got := MaskSensitive(tc.in); got != tc.want {
			t.Errorf("MaskSensitive(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
