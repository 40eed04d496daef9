package blob

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrBadLocator marks a source locator that cannot be resolved to a bucket
// and key.
var ErrBadLocator = errors.New("unparseable blob locator")

var virtualHostedPattern = regexp.MustCompile(`^https://([^.]+)\.s3\.[^/]+\.amazonaws\.com/(.+)$`)

// ParseLocator resolves the two accepted locator shapes to a (bucket, key)
// pair:
//
//	s3://bucket-name/path/to/object
//	https://bucket-name.s3.region.amazonaws.com/path/to/object
func ParseLocator(locator string) (bucket, key string, err error) {
	switch {
	case strings.HasPrefix(locator, "s3://"):
		rest := strings.TrimPrefix(locator, "s3://")
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("%w: %s", ErrBadLocator, locator)
		}
		return parts[0], parts[1], nil
	case strings.HasPrefix(locator, "https://"):
		m := virtualHostedPattern.FindStringSubmatch(locator)
		if m == nil {
			return "", "", fmt.Errorf("%w: %s", ErrBadLocator, locator)
		}
		return m[1], m[2], nil
	default:
		return "", "", fmt.Errorf("%w: %s", ErrBadLocator, locator)
	}
}
