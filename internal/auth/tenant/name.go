// Package tenant resolves a tenant namespace to its isolated database and
// exposes the tenant-scoped models stored there.
package tenant

import (
	"errors"
	"regexp"
	"strings"
)

// Prefix starts every tenant namespace.
const Prefix = "hss_"

var (
	ErrTenantNotFound = errors.New("tenant_not_found")
	ErrInvalidName    = errors.New("invalid_tenant_name")
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reAlnum    = regexp.MustCompile(`[a-z0-9]`)
	reName     = regexp.MustCompile(`^hss_[a-z0-9_]{1,59}$`)
)

// DatabaseNameFor derives the tenant namespace from a login identifier:
// the lowercased part before any "@", with each run of other characters
// collapsed to "_", prefixed with "hss_". Edge underscores are kept, so
// "demo_user" maps to "hss_demo_user" and "demo." to "hss_demo_". The
// result is empty when the local part has no letter or digit.
func DatabaseNameFor(loginID string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(loginID), "@")
	slug := reNonAlnum.ReplaceAllString(strings.ToLower(local), "_")
	if !reAlnum.MatchString(slug) {
		return ""
	}
	return Prefix + slug
}

// ValidName reports whether name is a namespace DatabaseNameFor could
// have produced. Names are used as file names and schema identifiers so
// nothing else is accepted.
func ValidName(name string) bool {
	return reName.MatchString(name) && reAlnum.MatchString(name[len(Prefix):])
}
