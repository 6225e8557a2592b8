// BYZRA ⸻ internal/util/style.go
// CLI color roles, line prefixes and the discovery spinner

package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Colors struct {
		Text   string `toml:"text"`
		Accent string `toml:"accent"`
		Alert  string `toml:"alert"`
		Muted  string `toml:"muted"`
		Good   string `toml:"good"`
	} `toml:"colors"`
}

// ╭─ STYLE DEFINITIONS ─────────────────────────╮
var (
	BRH lipgloss.Style // alerts, failures
	LBL lipgloss.Style // headings, progress labels
	SUB lipgloss.Style // secondary detail
	NSH lipgloss.Style // regular output
	SEC lipgloss.Style // success
	ORN lipgloss.Style // ornaments
)

func init() {
	ApplyTheme(LoadTheme())
}

// resolves colors into the package styles
func ApplyTheme(theme Theme) {
	text := lipgloss.Color(theme.Colors.Text)
	accent := lipgloss.Color(theme.Colors.Accent)
	alert := lipgloss.Color(theme.Colors.Alert)
	muted := lipgloss.Color(theme.Colors.Muted)
	good := lipgloss.Color(theme.Colors.Good)

	BRH = lipgloss.NewStyle().Foreground(alert).Bold(true)
	LBL = lipgloss.NewStyle().Foreground(accent).Bold(true)
	SUB = lipgloss.NewStyle().Foreground(muted)
	NSH = lipgloss.NewStyle().Foreground(text)
	SEC = lipgloss.NewStyle().Foreground(good).Bold(true)
	ORN = lipgloss.NewStyle().Foreground(muted).Bold(true)
}

func DefaultTheme() Theme {
	var theme Theme
	theme.Colors.Text = "#C0C0C0"
	theme.Colors.Accent = "#FF5C00"
	theme.Colors.Alert = "#FF007F"
	theme.Colors.Muted = "#666666"
	theme.Colors.Good = "#88AABB"
	return theme
}

// first theme.toml found wins, missing colors fall back to defaults
func LoadTheme() Theme {
	theme := DefaultTheme()

	paths := []string{
		"theme.toml",
		"config/theme.toml",
		filepath.Join(os.Getenv("HOME"), ".reclaim/config/theme.toml"),
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, &theme); err == nil {
			return theme
		}
	}

	return theme
}

// ╭─ LINE PREFIXES ─────────────────────────────╮
func Done(msg string) string    { return SEC.Render("[✓] " + msg) }
func Warn(msg string) string    { return LBL.Render("[!] " + msg) }
func Fail(msg string) string    { return BRH.Render("[X] " + msg) }
func Working(msg string) string { return NSH.Render("[~] " + msg) }
func Info(msg string) string    { return SUB.Render("[i] " + msg) }

func Divider() string { return SUB.Render(strings.Repeat("─", 48)) }

// ╭─ SPINNER ───────────────────────────────────╮

// lines written while the spinner runs; each one clears the spinner line first
type spinWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (s spinWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r\033[K")
	return s.w.Write(p)
}

// runs fn behind a spinner on w; fn prints through out so its lines never
// tear against a frame
func SpinWhileTo(w io.Writer, label string, fn func(out io.Writer) (string, error)) (string, error) {
	s := spinner.New(spinner.WithSpinner(spinner.Meter))
	ticker := time.NewTicker(s.Spinner.FPS)
	defer ticker.Stop()

	var mu sync.Mutex
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		frame := 0
		frames := s.Spinner.Frames
		for {
			select {
			case <-ticker.C:
				mu.Lock()
				fmt.Fprintf(w, "\r%s %s", ORN.Render(frames[frame]), LBL.Render(label))
				mu.Unlock()
				frame = (frame + 1) % len(frames)
			case <-done:
				return
			}
		}
	}()

	out, err := fn(spinWriter{mu: &mu, w: w})
	close(done)
	<-stopped
	// erase the spinner line
	fmt.Fprintf(w, "\r\033[K")
	return out, err
}
