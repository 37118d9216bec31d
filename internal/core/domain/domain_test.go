package domain_test

import (
	"testing"

	"github.com/lberthe/cartomark/internal/core/domain"
)

func TestHasCapability(t *testing.T) {
	cases := []struct {
		token    string
		required string
		want     bool
	}{
		{"User", "User", true},
		{"User&Admin", "Admin", true},
		{"User&Admin", "User", true},
		{"Admin", "User", false},
		{"", "User", false},
		{"SuperUser", "User", false},
		{"User&", "User", true},
	}
	for _, c := range cases {
		if got := domain.HasCapability(c.token, c.required); got != c.want {
			t.Errorf("HasCapability(%q, %q) = %v, want %v", c.token, c.required, got, c.want)
		}
	}
}

func TestHexifyColor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ffffff", "#ffffff"},
		{"#ffffff", "#ffffff"},
		{"#ffffffff", "#ffffff"},
		{"zzz", "#000"},
		{"", "#"},
		{"#12g456", "#120456"},
	}
	for _, c := range cases {
		if got := domain.HexifyColor(c.in); got != c.want {
			t.Errorf("HexifyColor(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	inner := domain.ErrNotFound
	err := domain.NewFetchError("load tags", inner)

	if !domain.IsFetchError(err) {
		t.Error("expected IsFetchError to be true")
	}
	if err.Error() != "load tags: not found" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
