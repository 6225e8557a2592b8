// BYZRA ⸻ internal/config/profile.go
// extra tag assignments from profile.lua, applied to every write

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
)

const ProfileFileName = "profile.lua"

var reTagName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

type ProfileEntry struct {
	Tag   string
	Value string
}

type Profile struct {
	Source  string
	Entries []ProfileEntry // sorted by tag
}

func ProfileSearchPaths() []string {
	return []string{
		"./" + ProfileFileName,
		"config/" + ProfileFileName,
		filepath.Join(os.Getenv("HOME"), ".reclaim/config", ProfileFileName),
	}
}

// loads path, or the first profile in the search paths when path is empty
// returns nil and no error when there is no profile anywhere
func LoadProfile(path string) (*Profile, error) {
	source := path
	if source == "" {
		source = find(ProfileSearchPaths())
		if source == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	p, err := ParseProfile(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	p.Source = source
	return p, nil
}

// runs a profile script and collects the table it returns
func ParseProfile(script string) (*Profile, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(script); err != nil {
		return nil, fmt.Errorf("failed to execute profile Lua: %w", err)
	}

	result := L.Get(-1)
	if result.Type() != lua.LTTable {
		return nil, fmt.Errorf("profile Lua must return a table")
	}

	p := &Profile{}
	var bad []string
	result.(*lua.LTable).ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTString || !reTagName.MatchString(k.String()) {
			bad = append(bad, k.String())
			return
		}
		switch v.Type() {
		case lua.LTString, lua.LTNumber:
			p.Entries = append(p.Entries, ProfileEntry{Tag: k.String(), Value: v.String()})
		case lua.LTBool:
			p.Entries = append(p.Entries, ProfileEntry{Tag: k.String(), Value: strings.ToLower(v.String())})
		default:
			bad = append(bad, k.String())
		}
	})

	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, fmt.Errorf("profile has invalid entries: %s", strings.Join(bad, ", "))
	}

	sort.Slice(p.Entries, func(i, j int) bool { return p.Entries[i].Tag < p.Entries[j].Tag })
	return p, nil
}

// entries with {{now}} and {{random}} filled in
func (p *Profile) Expand(now time.Time) []ProfileEntry {
	if p == nil {
		return nil
	}

	out := make([]ProfileEntry, len(p.Entries))
	for i, e := range p.Entries {
		v := strings.ReplaceAll(e.Value, "{{now}}", now.Format("2006:01:02 15:04:05"))
		for strings.Contains(v, "{{random}}") {
			v = strings.Replace(v, "{{random}}", uuid.NewString(), 1)
		}
		out[i] = ProfileEntry{Tag: e.Tag, Value: v}
	}
	return out
}
