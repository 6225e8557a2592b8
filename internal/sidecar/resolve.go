// BYZRA ⸻ internal/sidecar/resolve.go
// matches a media file to its JSON sidecar among the export's naming variants

package sidecar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrNotFound = errors.New("no JSON file found")

// checked in this order, at most one is removed
var editedSuffixes = []string{"-EFFECTS-edited", "-edited", "-edi"}

var reDuplicateIndex = regexp.MustCompile(`\((\d+)\)$`)

const (
	jsonExt       = ".json"
	supplemental  = ".supplemental-metadata"
	misspelled    = ".supplemental-metadat"
	supplementalB = ".supplemental-"
)

// a file name template: Prefix + Suffix, or Prefix + anything + Suffix
//
// Both parts are literal. Names containing glob metacharacters such as
// "[" or "*" are therefore matched as written.
type Pattern struct {
	Prefix   string
	Suffix   string
	Wildcard bool
}

func exact(name string) Pattern {
	return Pattern{Prefix: name}
}

func wild(prefix, suffix string) Pattern {
	return Pattern{Prefix: prefix, Suffix: suffix, Wildcard: true}
}

func (p Pattern) Match(name string) bool {
	if !p.Wildcard {
		return name == p.Prefix+p.Suffix
	}
	return len(name) >= len(p.Prefix)+len(p.Suffix) &&
		strings.HasPrefix(name, p.Prefix) &&
		strings.HasSuffix(name, p.Suffix)
}

func (p Pattern) String() string {
	if p.Wildcard {
		return p.Prefix + "*" + p.Suffix
	}
	return p.Prefix + p.Suffix
}

// drops the last character, counting runes
func dropLast(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

// removes the first matching edited marker from a file name
func StripEditedSuffix(name string) string {
	for _, suffix := range editedSuffixes {
		if strings.Contains(name, suffix) {
			return strings.Replace(name, suffix, "", 1)
		}
	}
	return name
}

// dir and the ordered list of sidecar name patterns for mediaPath
func Candidates(mediaPath string) (string, []Pattern) {
	dir := filepath.Dir(mediaPath)
	base := StripEditedSuffix(filepath.Base(mediaPath))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	index := ""
	if m := reDuplicateIndex.FindStringSubmatch(stem); m != nil {
		index = m[1]
	}
	clean := strings.TrimSpace(reDuplicateIndex.ReplaceAllString(stem, ""))

	patterns := []Pattern{
		exact(base + jsonExt),
		exact(dropLast(base) + jsonExt),
		wild(stem, jsonExt),
		wild(dropLast(stem), jsonExt),
		wild(clean+supplemental, jsonExt),
		wild(clean+ext+supplemental, jsonExt),
		wild(clean+misspelled, jsonExt),
		wild(clean+ext+misspelled, jsonExt),
		wild(clean+supplementalB, jsonExt),
		wild(clean+ext+supplementalB, jsonExt),
	}

	if index != "" {
		short := dropLast(clean)
		n := "(" + index + ")"
		patterns = append(patterns,
			exact(clean+ext+supplemental+n+jsonExt),
			exact(clean+ext+misspelled+n+jsonExt),
			exact(clean+ext+supplementalB+n+jsonExt),
			exact(short+ext+supplemental+n+jsonExt),
			exact(short+ext+misspelled+n+jsonExt),
			exact(short+ext+supplementalB+n+jsonExt),
			wild(short, jsonExt),
		)
	}

	return dir, patterns
}

// best matching sidecar for mediaPath
//
// The first pattern with any match wins. Within one pattern the
// lexicographically smallest name wins.
func Resolve(mediaPath string) (string, error) {
	dir, patterns := Candidates(mediaPath)

	// os.ReadDir returns entries sorted by name
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	for _, pattern := range patterns {
		for _, name := range names {
			if pattern.Match(name) {
				return filepath.Join(dir, name), nil
			}
		}
	}

	return "", ErrNotFound
}
