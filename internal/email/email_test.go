package email

import "testing"

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"inquizitor.pl":             "https://www.inquizitor.pl",
		"http://inquizitor.pl":      "https://www.inquizitor.pl",
		"https://www.inquizitor.pl": "https://www.inquizitor.pl",
		"https://app.inquizitor.pl": "https://app.inquizitor.pl",
		"http://localhost:3000":     "https://localhost:3000",
		"inquizitor.pl/":            "https://www.inquizitor.pl",
	}
	for in, want := range cases {
		if got := normalizeBaseURL(in); got != want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}
