package catalog

import "strings"

// Slugify lowercases the input and collapses every maximal run of
// non-[a-z0-9] characters into a single hyphen, trimming hyphens at both ends.
// "Health & Beauty" and "  health---beauty  " both yield "health-beauty".
func Slugify(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}

// ProductSlug derives a product slug from barcode and name, capped at 100 chars.
func ProductSlug(barcode, name string) string {
	slug := barcode + "-" + Slugify(name)
	if len(slug) > 100 {
		slug = slug[:100]
	}
	return slug
}
