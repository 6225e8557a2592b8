// BYZRA ⸻ internal/sidecar/record.go
// sidecar JSON parsing and the values derived from it

package sidecar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// exif date layout, YYYY:MM:DD HH:MM:SS
const TimestampLayout = "2006:01:02 15:04:05"

// longest person name written as a keyword, in characters
const MaxNameLength = 64

type Geo struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// parsed sidecar, read-only once loaded
type Record struct {
	PhotoTakenTime *int64 // unix seconds, nil when absent or unparsable
	Geo            Geo
	People         []string // truncated to MaxNameLength
}

type rawRecord struct {
	PhotoTakenTime struct {
		Timestamp json.RawMessage `json:"timestamp"`
	} `json:"photoTakenTime"`
	GeoData struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Altitude  float64 `json:"altitude"`
	} `json:"geoData"`
	People []struct {
		Name string `json:"name"`
	} `json:"people"`
}

func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse sidecar JSON: %w", err)
	}

	rec := &Record{
		PhotoTakenTime: parseEpoch(raw.PhotoTakenTime.Timestamp),
		Geo: Geo{
			Latitude:  raw.GeoData.Latitude,
			Longitude: raw.GeoData.Longitude,
			Altitude:  raw.GeoData.Altitude,
		},
	}

	for _, person := range raw.People {
		rec.People = append(rec.People, TruncateName(person.Name))
	}

	return rec, nil
}

// the export writes the epoch as a string, older ones as a number
func parseEpoch(raw json.RawMessage) *int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil
		}
		return &v
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	v := int64(f)
	return &v
}

// first MaxNameLength characters of name
func TruncateName(name string) string {
	r := []rune(name)
	if len(r) <= MaxNameLength {
		return name
	}
	return string(r[:MaxNameLength])
}

// photo-taken time formatted in loc, false when the sidecar has none
func (r *Record) TakenAt(loc *time.Location) (string, bool) {
	if r.PhotoTakenTime == nil {
		return "", false
	}
	if loc == nil {
		loc = time.Local
	}
	return FormatTimestamp(*r.PhotoTakenTime, loc), true
}

func FormatTimestamp(epoch int64, loc *time.Location) string {
	return time.Unix(epoch, 0).In(loc).Format(TimestampLayout)
}

// negative altitudes are sensor noise and are written as 0
func (r *Record) ClampedAltitude() float64 {
	return ClampAltitude(r.Geo.Altitude)
}

func ClampAltitude(alt float64) float64 {
	return math.Max(alt, 0)
}
