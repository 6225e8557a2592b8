// BYZRA ⸻ internal/exiftool/verify.go
// reads written metadata back through a persistent exiftool process

package exiftool

import (
	"fmt"
	"strings"
	"sync"

	exif "github.com/barasher/go-exiftool"
)

// what a successful write must have left behind
type Expectation struct {
	DateTag string // tag holding the written date, empty to skip the date check
	Date    string
	GPS     bool
}

// shared by every worker; one stay_open exiftool serves them in turn
type Verifier struct {
	mu sync.Mutex
	et *exif.Exiftool
}

func NewVerifier(bin string) (*Verifier, error) {
	opts := []func(*exif.Exiftool) error{}
	if bin != "" && bin != DefaultBin {
		opts = append(opts, exif.SetExiftoolBinaryPath(bin))
	}

	et, err := exif.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool for verification: %w", err)
	}

	return &Verifier{et: et}, nil
}

func (v *Verifier) Verify(path string, want Expectation) error {
	v.mu.Lock()
	infos := v.et.ExtractMetadata(path)
	v.mu.Unlock()

	if len(infos) == 0 {
		return fmt.Errorf("no metadata returned for %s", path)
	}
	if infos[0].Err != nil {
		return fmt.Errorf("failed to read back metadata: %w", infos[0].Err)
	}

	return CheckFields(infos[0].Fields, want)
}

// compares a readback against the expectation
func CheckFields(fields map[string]any, want Expectation) error {
	var problems []string

	if want.DateTag != "" && want.Date != "" {
		got, ok := fields[want.DateTag]
		switch {
		case !ok:
			problems = append(problems, want.DateTag+" missing")
		case fmt.Sprint(got) != want.Date:
			problems = append(problems, fmt.Sprintf("%s is %q, want %q", want.DateTag, fmt.Sprint(got), want.Date))
		}
	}

	if want.GPS {
		if _, ok := fields["GPSLatitude"]; !ok {
			problems = append(problems, "GPSLatitude missing")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func (v *Verifier) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.et.Close()
}
