// Package validation contains pure value-level validation helpers shared by
// the OAuth2 service layer: scope-name syntax and scope set algebra.
package validation

import (
	"regexp"
	"sort"
	"strings"
)

// Scope name rules:
// - Lowercase only.
// - Start and end with [a-z0-9].
// - Middle chars may include [a-z0-9:_.-].
// - Length 1..64.
// - Excludes semicolon and whitespace explicitly.
//
// Examples valid: profile, profile:read, email:read:e2e123, a, a_b-c.d:scope2
// Examples invalid: ;hack, BAD, bad space, :leader, trailer:, "", 65+ chars.
var scopeNameRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9:_\.-]{0,62}[a-z0-9])?$`)

// ValidScopeName returns true if the provided scope name matches the allowed pattern.
func ValidScopeName(name string) bool {
	return scopeNameRe.MatchString(name)
}

// ScopeSet is an ordered sequence of distinct scope tokens. The zero value is
// the empty set. Order is first-seen order from the raw scope string; equality
// for token reuse is order-independent (see Signature).
type ScopeSet []string

// ParseScopes splits a raw scope string on whitespace, drops empty tokens and
// deduplicates while preserving first-seen order. An empty or absent string
// yields an empty set.
func ParseScopes(raw string) ScopeSet {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	out := make(ScopeSet, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// DefaultTo returns fallback when the set is empty, otherwise the set itself.
func (s ScopeSet) DefaultTo(fallback ScopeSet) ScopeSet {
	if len(s) == 0 {
		return fallback
	}
	return s
}

// Contains reports whether every token of sub appears in s.
// An empty sub is trivially contained.
func (s ScopeSet) Contains(sub ScopeSet) bool {
	if len(sub) == 0 {
		return true
	}
	idx := make(map[string]struct{}, len(s))
	for _, t := range s {
		idx[t] = struct{}{}
	}
	for _, t := range sub {
		if _, ok := idx[t]; !ok {
			return false
		}
	}
	return true
}

// String joins the set back into a space-delimited scope string.
func (s ScopeSet) String() string {
	return strings.Join(s, " ")
}

// Signature returns a canonical (sorted) form of the set. Two sets with the
// same tokens in any order share a signature; stores use it as the match key
// for token reuse.
func (s ScopeSet) Signature() string {
	if len(s) == 0 {
		return ""
	}
	cp := make([]string, len(s))
	copy(cp, s)
	sort.Strings(cp)
	return strings.Join(cp, " ")
}
