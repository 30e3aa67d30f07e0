package quote

import "testing"

func TestNormalizePhoneCO(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3157484662", "3157484662"},
		{"315 748 4662", "3157484662"},
		{"+57 315 748 4662", "3157484662"},
		{"573157484662", "3157484662"},
		{"57315748", "57315748"},     // only 8 digits, the 57 is not a prefix
		{"(315) 748-4662", "3157484662"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhoneCO(tt.in); got != tt.want {
			t.Errorf("NormalizePhoneCO(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidWhatsAppCO(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"3157484662", true},
		{"315 748 4662", true},
		{"+57 315 748 4662", true},
		{"4157484662", false}, // landline prefix
		{"315748466", false},  // 9 digits
		{"31574846621", false},
		{"", false},
		{"abc", false},
	}

	for _, tt := range tests {
		if got := IsValidWhatsAppCO(tt.in); got != tt.want {
			t.Errorf("IsValidWhatsAppCO(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatPhoneCO(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"31", "31"},
		{"315", "315"},
		{"3157", "315 7"},
		{"315748", "315 748"},
		{"3157484", "315 748 4"},
		{"3157484662", "315 748 4662"},
		{"31574846629999", "315 748 4662"}, // extra digits are dropped
		{"+57 315 748 4662", "315 748 4662"},
	}

	for _, tt := range tests {
		if got := FormatPhoneCO(tt.in); got != tt.want {
			t.Errorf("FormatPhoneCO(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatThenNormalizeRoundTrip(t *testing.T) {
	raw := "573157484662"
	if got := NormalizePhoneCO(FormatPhoneCO(raw)); got != NormalizePhoneCO(raw) {
		t.Errorf("normalize(format(%q)) = %q, want %q", raw, got, NormalizePhoneCO(raw))
	}
}
