package auth

import (
	"regexp"
	"strings"
)

// ExemptionRule lets a request bypass authorization entirely when its path
// matches the pattern and its method is listed (an empty method list means
// any method). The rule table is built once at startup and read-only after.
type ExemptionRule struct {
	Path    *regexp.Regexp
	Methods []string
}

func (r ExemptionRule) Matches(method, path string) bool {
	if !r.Path.MatchString(path) {
		return false
	}
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// Exempt reports whether any rule in the table matches the request.
func Exempt(rules []ExemptionRule, method, path string) bool {
	for _, r := range rules {
		if r.Matches(method, path) {
			return true
		}
	}
	return false
}

// DefaultExemptions is the standard table: public read access to uploaded
// assets, products and categories, and the login/registration endpoints.
func DefaultExemptions(apiPrefix string) []ExemptionRule {
	prefix := regexp.QuoteMeta(apiPrefix)
	readOnly := []string{"GET", "OPTIONS"}
	return []ExemptionRule{
		{Path: regexp.MustCompile(`^/public/uploads(/.*)?$`), Methods: readOnly},
		{Path: regexp.MustCompile(`^` + prefix + `/products(/.*)?$`), Methods: readOnly},
		{Path: regexp.MustCompile(`^` + prefix + `/categories(/.*)?$`), Methods: readOnly},
		{Path: regexp.MustCompile(`^` + prefix + `/users/login$`)},
		{Path: regexp.MustCompile(`^` + prefix + `/users/register$`)},
		{Path: regexp.MustCompile(`^/health$`)},
	}
}
