// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary
// strings, plus collision resolution against existing slugs.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

// maxLen caps the normalized base slug. Numeric collision suffixes may
// push the final slug slightly past this.
const maxLen = 100

var (
	// nonASCII matches characters outside the basic Latin range. They are
	// dropped entirely rather than transliterated, so a title written only
	// in, say, Japanese normalizes to the empty string.
	nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)
	// nonAlphanumeric matches runs of anything that isn't a lowercase
	// letter or digit.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// Generate creates a URL-friendly base slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonASCII.ReplaceAllString(result, "")
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > maxLen {
		result = strings.TrimRight(result[:maxLen], "-")
	}
	return result
}

// HasBase reports whether s is base itself or base with a numeric
// collision suffix ("-1", "-2", …). Used on update to decide whether a
// stored slug still matches the entity's title, so that saving an
// unchanged title does not churn the slug.
func HasBase(s, base string) bool {
	if s == base {
		return true
	}
	rest, ok := strings.CutPrefix(s, base+"-")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Taken reports whether a candidate slug is already in use. The checker
// must exclude the entity being updated so an unchanged title does not
// collide with itself.
type Taken func(candidate string) (bool, error)

// Resolve returns the first unused slug starting from base, appending
// "-1", "-2", … in order until the checker reports a free candidate.
// Gaps are not reused. Uniqueness holds only against the slugs visible
// to the checker at call time; callers serialize against concurrent
// writers by running the checker and the subsequent insert in one
// transaction, backed by a UNIQUE constraint.
func Resolve(base string, taken Taken) (string, error) {
	inUse, err := taken(base)
	if err != nil {
		return "", fmt.Errorf("check slug %q: %w", base, err)
	}
	if !inUse {
		return base, nil
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		inUse, err := taken(candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !inUse {
			return candidate, nil
		}
	}
}
