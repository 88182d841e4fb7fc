package gate

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultVersionKey is the manifest identifier holding the project version.
const DefaultVersionKey = "version"

var quotedLiteral = regexp.MustCompile(`"([^"]*)"`)

// Extractor pulls a quoted version literal out of manifest text.
type Extractor struct {
	key *regexp.Regexp
}

// NewExtractor returns an Extractor matching lines of the form
// `<key> = "<literal>"`. An empty key means DefaultVersionKey.
func NewExtractor(key string) (Extractor, error) {
	if key == "" {
		key = DefaultVersionKey
	}
	re, err := regexp.Compile(`^\s*` + regexp.QuoteMeta(key) + `\s*=`)
	if err != nil {
		return Extractor{}, fmt.Errorf("compiling version key %q: %w", key, err)
	}
	return Extractor{key: re}, nil
}

var defaultExtractor = MustExtractor(DefaultVersionKey)

// MustExtractor is like NewExtractor but panics on error.
func MustExtractor(key string) Extractor {
	x, err := NewExtractor(key)
	if err != nil {
		panic(err)
	}
	return x
}

// ExtractVersion returns the version literal declared in content using
// DefaultVersionKey.
func ExtractVersion(content string) string {
	return defaultExtractor.Extract(content)
}

// Extract returns the first double-quoted literal following `=` on the first
// line whose leading identifier is the version key. The literal is returned
// verbatim. If no line matches, or the first matching line carries no quoted
// literal, the result is "".
//
// Lines inside comments or multi-line strings are not recognised as such;
// the first line-leading match wins.
func (x Extractor) Extract(content string) string {
	if x.key == nil {
		x = defaultExtractor
	}
	for _, line := range strings.Split(content, "\n") {
		loc := x.key.FindStringIndex(line)
		if loc == nil {
			continue
		}
		m := quotedLiteral.FindStringSubmatch(line[loc[1]:])
		if m == nil {
			return ""
		}
		return m[1]
	}
	return ""
}
