package utils

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Slugify normalizes a title into a lower-case, URL-safe slug.
func Slugify(title string) string {
	return slug.Make(title)
}

// UniqueSlug slugifies the title and, when the result is already taken,
// appends the smallest positive integer suffix that is free: "my-soup",
// "my-soup-1", "my-soup-2", ...
//
// check-then-insert is not atomic, so callers still have to treat a
// unique-constraint violation as "retry with the next candidate".
func UniqueSlug(title string, taken func(candidate string) bool) string {
	base := slug.Make(title)
	candidate := base
	for i := 1; taken(candidate); i++ {
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return candidate
}
