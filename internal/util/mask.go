package util

import "strings"

// MaskSensitive obscures a personal identifier (email or phone number) for
// log output, keeping just enough shape to correlate entries. Emails keep the
// first two local characters and the domain; other values keep the last four
// characters.
func MaskSensitive(value string) string {
	if value == "" {
		return ""
	}
	if at := strings.Index(value, "@"); at > 0 {
		local := value[:at]
		keep := 2
		if len(local) < keep {
			keep = len(local)
		}
		return local[:keep] + strings.Repeat("*", len(local)-keep) + value[at:]
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
