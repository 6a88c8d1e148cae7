package app

import "testing"

func TestOriginAllowed(t *testing.T) {
	patterns := []string{"researchhub.app", "*.researchhub.app", "localhost:*"}

	allowed := []string{
		"https://researchhub.app",
		"https://app.researchhub.app",
		"http://localhost:5173",
		"http://localhost:3000",
	}
	for _, origin := range allowed {
		if !originAllowed(patterns, origin) {
			t.Errorf("originAllowed(%q) = false, want true", origin)
		}
	}

	denied := []string{
		"https://evil.com",
		"https://researchhub.app.evil.com",
		"http://remotehost:5173",
	}
	for _, origin := range denied {
		if originAllowed(patterns, origin) {
			t.Errorf("originAllowed(%q) = true, want false", origin)
		}
	}
}

func TestMatchOriginPatternExact(t *testing.T) {
	if !matchOriginPattern("api.example.com", "api.example.com") {
		t.Error("exact host should match")
	}
	if matchOriginPattern("api.example.com", "api.example.com:8080") {
		t.Error("host with port should not match bare-host pattern")
	}
}
