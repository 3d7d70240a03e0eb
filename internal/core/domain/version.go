package domain

import "strings"

// VersionSatisfies reports whether actual satisfies the requirement spec.
//
// Supported forms:
//   - "*", "latest" or "" accept any version
//   - "^1.2.3" requires the same major component
//   - "~1.2.3" requires the same major and minor components
//   - anything else requires an exact match
//
// Components are compared as strings, so "^1.0.0" does not match "01.0.0".
// A missing or empty component on either side counts as "0": "~1" means
// "~1.0", so it accepts 1.0.7 but not 1.5.0, and a bare "^" accepts only
// versions whose major component is 0 or empty.
func VersionSatisfies(spec, actual string) bool {
	spec = strings.TrimSpace(spec)
	actual = strings.TrimSpace(actual)

	switch {
	case spec == "" || spec == "*" || spec == "latest":
		return true
	case strings.HasPrefix(spec, "^"):
		return sameComponents(spec[1:], actual, 1)
	case strings.HasPrefix(spec, "~"):
		return sameComponents(spec[1:], actual, 2)
	default:
		return spec == actual
	}
}

// sameComponents compares the first n dot-separated components of a and b.
// A missing component counts as "0".
func sameComponents(a, b string, n int) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := range n {
		if component(as, i) != component(bs, i) {
			return false
		}
	}
	return true
}

func component(parts []string, i int) string {
	if i >= len(parts) || parts[i] == "" {
		return "0"
	}
	return parts[i]
}
