// BYZRA ⸻ internal/media/media.go
// media classification by extension and the per-file work item

package media

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

type Kind string

const (
	KindImage  Kind = "image"
	KindVideo  Kind = "video"
	KindLegacy Kind = "legacy" // video container that is transcoded before tagging
)

// all supported extensions by kind
var (
	ImageExtensions  = []string{"jpg", "jpeg", "png", "heic", "gif"}
	VideoExtensions  = []string{"mp4", "mov", "mkv", "webm", "3gp", "m4v", "mp"}
	LegacyExtensions = []string{"avi"}
)

// AppleDouble files left behind by macOS copies
const reservedPrefix = "._"

// one discovered media file
type Item struct {
	Path string
	Kind Kind
	Seq  int // submission order, starting at 0
}

func NewItem(path string, seq int) (Item, error) {
	kind, err := KindOf(path)
	if err != nil {
		return Item{}, err
	}
	return Item{Path: path, Kind: kind, Seq: seq}, nil
}

// same item under a corrected path
func (i Item) Renamed(path string) Item {
	kind, err := KindOf(path)
	if err != nil {
		kind = i.Kind
	}
	return Item{Path: path, Kind: kind, Seq: i.Seq}
}

func (i Item) Name() string {
	return filepath.Base(i.Path)
}

func normalize(extension string) string {
	return strings.ToLower(strings.TrimPrefix(extension, "."))
}

// list of all supported file extensions
func SupportedFormats() []string {
	all := []string{}
	all = append(all, ImageExtensions...)
	all = append(all, VideoExtensions...)
	all = append(all, LegacyExtensions...)
	return all
}

// checks if a file extension is supported
func IsSupported(extension string) bool {
	return slices.Contains(SupportedFormats(), normalize(extension))
}

// kind for a path, from its extension
func KindOf(path string) (Kind, error) {
	ext := normalize(filepath.Ext(path))

	switch {
	case slices.Contains(ImageExtensions, ext):
		return KindImage, nil
	case slices.Contains(VideoExtensions, ext):
		return KindVideo, nil
	case slices.Contains(LegacyExtensions, ext):
		return KindLegacy, nil
	}

	return "", fmt.Errorf("unsupported extension: %q", ext)
}

// true for names the library walk must never pick up
func IsReserved(name string) bool {
	return strings.HasPrefix(name, reservedPrefix)
}

// supported extension and not reserved
func IsCandidate(name string) bool {
	return !IsReserved(name) && IsSupported(filepath.Ext(name))
}
