// BYZRA ⸻ internal/sniff/sniff.go
// content sniffing and extension correction for mislabelled media

package sniff

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"reclaim/internal/util"
)

const (
	NameFile = "file"
	NameMime = "mime"
)

// free-text description of a file's content
type Sniffer interface {
	Describe(ctx context.Context, path string) (string, error)
}

// shells out to `file -b`
type FileCommand struct {
	Bin    string
	Runner util.Runner
}

func (f FileCommand) Describe(ctx context.Context, path string) (string, error) {
	bin := f.Bin
	if bin == "" {
		bin = NameFile
	}
	runner := f.Runner
	if runner == nil {
		runner = util.ExecRunner{}
	}

	res := runner.Run(ctx, bin, "-b", path)
	if !res.OK() {
		return "", fmt.Errorf("file type check failed: %s", res.Diagnostic())
	}
	return strings.TrimSpace(res.Stdout), nil
}

// in-process signature detection, no external binary
type Mime struct{}

func (Mime) Describe(_ context.Context, path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type: %w", err)
	}
	return mt.String(), nil
}

// picks a sniffer by config name
func New(name, fileBin string, runner util.Runner) (Sniffer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameFile:
		return FileCommand{Bin: fileBin, Runner: runner}, nil
	case NameMime:
		return Mime{}, nil
	}
	return nil, fmt.Errorf("unknown sniffer %q (want %q or %q)", name, NameFile, NameMime)
}

// matches either sniffer's wording for JPEG content
func IsJPEG(desc string) bool {
	return strings.Contains(desc, "JPEG image data") || strings.HasPrefix(desc, "image/jpeg")
}

// an extension that lies about the content
type Rule struct {
	From  string // lowercase, with dot
	To    string
	Match func(desc string) bool
}

var DefaultRules = []Rule{
	{From: ".heic", To: ".jpg", Match: IsJPEG},
}

// corrected path for path, false when no rule applies
//
// A sniffer error is treated as no match.
func Correct(ctx context.Context, s Sniffer, rules []Rule, path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))

	for _, rule := range rules {
		if ext != rule.From {
			continue
		}
		desc, err := s.Describe(ctx, path)
		if err != nil || !rule.Match(desc) {
			return path, false
		}
		return util.ReplaceExt(path, rule.To), true
	}

	return path, false
}
