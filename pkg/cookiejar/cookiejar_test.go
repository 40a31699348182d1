package cookiejar_test

import (
	"net/http/httptest"
	"testing"

	"github.com/nberchet/apothecary/pkg/cookiejar"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   map[string]string
	}{
		{"missing header", "", map[string]string{}},
		{"whitespace only", "   ", map[string]string{}},
		{"single cookie", "potion_session=abc", map[string]string{"potion_session": "abc"}},
		{
			"multiple cookies",
			"a=1; potion_session=tok; b=2",
			map[string]string{"a": "1", "potion_session": "tok", "b": "2"},
		},
		{"segment without equals is skipped", "a=1; garbage; b=2", map[string]string{"a": "1", "b": "2"}},
		{"empty name is skipped", "=orphan; a=1", map[string]string{"a": "1"}},
		{"last duplicate wins", "a=1; a=2", map[string]string{"a": "2"}},
		{"empty value kept", "a=", map[string]string{"a": ""}},
		{"value containing equals", "a=x=y", map[string]string{"a": "x=y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cookiejar.Parse(tt.header)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %q: got %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestTokenAbsent(t *testing.T) {
	r := httptest.NewRequest("GET", "/potions", nil)
	if tok := cookiejar.Token(r, "potion_session"); tok != "" {
		t.Errorf("expected empty token without Cookie header, got %q", tok)
	}

	r.Header.Set("Cookie", "other=1")
	if tok := cookiejar.Token(r, "potion_session"); tok != "" {
		t.Errorf("expected empty token when name is absent, got %q", tok)
	}
}

func TestTokenPresent(t *testing.T) {
	r := httptest.NewRequest("GET", "/potions", nil)
	r.Header.Set("Cookie", "a=1; potion_session=the-token")
	if tok := cookiejar.Token(r, "potion_session"); tok != "the-token" {
		t.Errorf("got %q, want %q", tok, "the-token")
	}
}
