package quote

import "strings"

func DigitsOnly(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhoneCO strips everything but digits and removes a leading "57"
// country code when the number carries one (12 digits total).
func NormalizePhoneCO(v string) string {
	d := DigitsOnly(v)
	if strings.HasPrefix(d, "57") && len(d) == 12 {
		d = d[2:]
	}
	return d
}

// IsValidWhatsAppCO reports whether v is a Colombian mobile number:
// 10 digits starting with '3' after normalization.
func IsValidWhatsAppCO(v string) bool {
	d := NormalizePhoneCO(v)
	return len(d) == 10 && strings.HasPrefix(d, "3")
}

// FormatPhoneCO renders a normalized number as "315 748 4662" while the
// user types; partial input keeps whatever groups are complete.
func FormatPhoneCO(v string) string {
	d := NormalizePhoneCO(v)
	if d == "" {
		return ""
	}
	if len(d) <= 3 {
		return d
	}
	if len(d) <= 6 {
		return d[:3] + " " + d[3:]
	}
	end := len(d)
	if end > 10 {
		end = 10
	}
	return d[:3] + " " + d[3:6] + " " + d[6:end]
}
