package safeurl

import (
	"errors"
	"testing"
)

func TestValidateAcceptsPublicHTTP(t *testing.T) {
	for _, raw := range []string{
		"https://example.com/paper.pdf",
		"http://cdn.example.org:8080/doc?id=1",
		"https://93.184.216.34/file",
	} {
		if _, err := Validate(raw); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", raw, err)
		}
	}
}

func TestValidateRejectsNonHTTP(t *testing.T) {
	for _, raw := range []string{
		"",
		"ftp://example.com/file",
		"file:///etc/passwd",
		"javascript:alert(1)",
		"/relative/path",
	} {
		if _, err := Validate(raw); !errors.Is(err, ErrNotHTTP) {
			t.Errorf("Validate(%q) = %v, want ErrNotHTTP", raw, err)
		}
	}
}

func TestValidateRejectsInternalHosts(t *testing.T) {
	for _, raw := range []string{
		"http://localhost/admin",
		"http://api.localhost/admin",
		"http://127.0.0.1/secret",
		"http://127.0.0.1:6379/",
		"http://10.0.0.5/metadata",
		"http://172.16.0.1/",
		"http://172.31.255.255/",
		"http://192.168.1.1/router",
		"http://169.254.169.254/latest/meta-data/",
		"http://0.0.0.0/",
		"http://[::1]/",
	} {
		if _, err := Validate(raw); !errors.Is(err, ErrBlockedHost) {
			t.Errorf("Validate(%q) = %v, want ErrBlockedHost", raw, err)
		}
	}
}
