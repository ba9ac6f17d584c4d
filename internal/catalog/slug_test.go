package catalog

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Health & Beauty", "health-beauty"},
		{"  health---beauty  ", "health-beauty"},
		{"Groceries", "groceries"},
		{"Wines, Spirits & Liquors", "wines-spirits-liquors"},
		{"100% Juice", "100-juice"},
		{"---", ""},
		{"", ""},
		{"A", "a"},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyEquivalentNamesCollide(t *testing.T) {
	// Two spellings that normalize identically must yield the same slug, so
	// the resolver maps them to the same category.
	a := Slugify("Health & Beauty")
	b := Slugify("  health---beauty  ")
	if a != b {
		t.Fatalf("expected identical slugs, got %q and %q", a, b)
	}
	if a != "health-beauty" {
		t.Fatalf("expected health-beauty, got %q", a)
	}
}

func TestProductSlug(t *testing.T) {
	got := ProductSlug("ABC123", "Fresh Milk 1L")
	if got != "ABC123-fresh-milk-1l" {
		t.Errorf("unexpected product slug %q", got)
	}

	long := ProductSlug("1234567890123", strings.Repeat("very long name ", 20))
	if len(long) > 100 {
		t.Errorf("product slug not truncated: %d chars", len(long))
	}
}
