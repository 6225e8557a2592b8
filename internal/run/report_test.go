package run

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured []string

func (c *captured) Write(line string) { *c = append(*c, line) }

func (c captured) index(t *testing.T, substr string) int {
	t.Helper()
	i := slices.IndexFunc(c, func(line string) bool { return strings.Contains(line, substr) })
	require.GreaterOrEqual(t, i, 0, "missing line %q", substr)
	return i
}

func TestReportPrint_FailuresBeforeSummary(t *testing.T) {
	r := &Report{
		Succeeded: 2,
		Failed:    1,
		Abandoned: 1,
		Failures:  []Failure{{Path: "/lib/orphan.jpg", Reason: "No JSON file found"}},
		Flagged:   []Flag{{Path: "/lib/thumb.jpg", Reason: "retry failed: broken"}},
	}

	var out captured
	r.Print(&out)

	details := out.index(t, "Failure Details:")
	failure := out.index(t, "/lib/orphan.jpg: No JSON file found")
	flagged := out.index(t, "/lib/thumb.jpg: retry failed: broken")
	summary := out.index(t, "Summary:")

	assert.Less(t, details, failure)
	assert.Less(t, failure, flagged)
	assert.Less(t, flagged, summary)
	assert.Greater(t, out.index(t, "Abandoned: 1"), summary)
}

func TestReportPrint_CleanRunHasOnlySummary(t *testing.T) {
	var out captured
	(&Report{Succeeded: 3}).Print(&out)

	assert.NotContains(t, strings.Join(out, "\n"), "Failure Details:")
	assert.Contains(t, strings.Join(out, "\n"), "Success: 3")
}
