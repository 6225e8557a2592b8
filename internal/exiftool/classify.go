// BYZRA ⸻ internal/exiftool/classify.go
// sorts exiftool diagnostics into repairable faults

package exiftool

import "regexp"

type Fault int

const (
	FaultNone               Fault = iota
	FaultCorruptThumbnail         // broken embedded preview, fixed by stripping all metadata
	FaultCorruptImageStream       // truncated JPEG, fixed by re-encoding
)

func (f Fault) String() string {
	switch f {
	case FaultCorruptThumbnail:
		return "corrupt thumbnail"
	case FaultCorruptImageStream:
		return "corrupt image stream"
	default:
		return "none"
	}
}

var (
	reCorruptThumbnail   = regexp.MustCompile(`Error reading OtherImageStart`)
	reCorruptImageStream = regexp.MustCompile(`JPEG EOI marker not found`)
)

func MatchCorruptThumbnail(diag string) bool {
	return reCorruptThumbnail.MatchString(diag)
}

func MatchCorruptImageStream(diag string) bool {
	return reCorruptImageStream.MatchString(diag)
}

// first matching fault, thumbnail before image stream
func Classify(diag string) Fault {
	switch {
	case MatchCorruptThumbnail(diag):
		return FaultCorruptThumbnail
	case MatchCorruptImageStream(diag):
		return FaultCorruptImageStream
	}
	return FaultNone
}
