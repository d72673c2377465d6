// Package versionutil compares dotted software version strings.
//
// Version strings in agent reports and the vulnerability catalog are
// free-form ("2.7.18", "v3.10", "version 1.2-beta", garbage). Parsing
// normalizes them to a major.minor.patch triple before handing the
// comparison to hashicorp/go-version.
package versionutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

var (
	prefixRe  = regexp.MustCompile(`^(version|ver|v)`)
	segmentRe = regexp.MustCompile(`^(\d+)(?:\.(\d+))?(?:\.(\d+))?`)
)

// Parse extracts up to three numeric segments from a version string.
// Missing or non-numeric tail segments default to 0; an entirely
// unparseable string parses to the zero triple. Leading "v", "ver" and
// "version" tokens are stripped.
func Parse(s string) [3]int {
	var out [3]int
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return out
	}
	s = strings.TrimSpace(prefixRe.ReplaceAllString(s, ""))

	m := segmentRe.FindStringSubmatch(s)
	if m == nil {
		return out
	}
	for i := 0; i < 3; i++ {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			break
		}
		out[i] = n
	}
	return out
}

// canonical builds a go-version value from the parsed triple. The
// normalized form is always parseable, so errors cannot occur here.
func canonical(s string) *goversion.Version {
	p := Parse(s)
	return goversion.Must(goversion.NewVersion(fmt.Sprintf("%d.%d.%d", p[0], p[1], p[2])))
}

// Compare returns -1, 0 or 1 as a is less than, equal to or greater
// than b under numeric tuple ordering.
//
//	Compare("2.7.18", "3.0.0") == -1
//	Compare("3.10", "3.9.5") == 1
//	Compare("2.5.0", "2.5") == 0
func Compare(a, b string) int {
	return canonical(a).Compare(canonical(b))
}

// IsVulnerable reports whether installed is older than the first safe
// version. Empty strings are never considered vulnerable.
func IsVulnerable(installed, safeFrom string) bool {
	if installed == "" || safeFrom == "" {
		return false
	}
	return Compare(installed, safeFrom) < 0
}
