package directory

import "testing"

func TestNationalityName(t *testing.T) {
	tests := []struct {
		code     string
		language string
		want     string
	}{
		{"SY", "en", "Syrian"},
		{"sy", "en", "Syrian"},
		{"SY", "ar", "سوري"},
		{"IN", "ar", "هندي"},
		{"ZZ", "en", "ZZ"},
	}
	for _, tc := range tests {
		tc := tc
		if got := NationalityName(tc.code, tc.language); got != tc.want {
			t.Fatalf("NationalityName(%q, %q) = %q, want %q", tc.code, tc.language, got, tc.want)
		}
	}
}

func TestMatchNationalityCodesExactCode(t *testing.T) {
	got := MatchNationalityCodes("in")
	if len(got) != 1 || got[0] != "IN" {
		t.Fatalf("expected exact code match [IN], got %v", got)
	}
}

func TestMatchNationalityCodesEnglishSubstring(t *testing.T) {
	got := MatchNationalityCodes("indi")
	if len(got) != 1 || got[0] != "IN" {
		t.Fatalf("expected [IN] for substring, got %v", got)
	}
}

func TestMatchNationalityCodesMultipleMatches(t *testing.T) {
	// "congolese" covers both Congo entries.
	got := MatchNationalityCodes("congolese")
	if len(got) != 2 || got[0] != "CD" || got[1] != "CG" {
		t.Fatalf("expected sorted [CD CG], got %v", got)
	}
}

func TestMatchNationalityCodesArabicName(t *testing.T) {
	got := MatchNationalityCodes("مصري")
	if len(got) != 1 || got[0] != "EG" {
		t.Fatalf("expected [EG] for arabic name, got %v", got)
	}
}

func TestMatchNationalityCodesUnknownFallsBack(t *testing.T) {
	got := MatchNationalityCodes("atlantis")
	if len(got) != 1 || got[0] != "atlantis" {
		t.Fatalf("expected passthrough for unknown input, got %v", got)
	}
}

func TestMatchNationalityCodesEmpty(t *testing.T) {
	if got := MatchNationalityCodes("   "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}
