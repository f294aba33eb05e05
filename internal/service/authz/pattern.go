package authz

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// validatePattern checks an Ant-style path pattern.
//
//	?    one character inside a segment
//	*    zero or more characters inside a segment
//	**   as a whole segment, zero or more segments
func validatePattern(pattern string) error {
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("pattern %q must start with /", pattern)
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	return nil
}

// matchPattern reports whether the cleaned path p matches a validated pattern.
func matchPattern(pattern, p string) bool {
	ok, err := doublestar.Match(pattern, p)
	return err == nil && ok
}
