package formatter

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/sectiontree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func strPtr(s string) *string { return &s }

func badgeColumn(line string) int {
	return utf8.RuneCountInString(line[:strings.Index(line, "[")])
}

func TestRenderSectionTree(t *testing.T) {
	roots := []*domain.Section{
		{ID: "a", Name: "Login", TestCaseCount: 2, Children: []*domain.Section{
			{ID: "b", Name: "SSO", ParentID: strPtr("a"), TestCaseCount: 1},
		}},
		{ID: "c", Name: "Checkout"},
		{ID: "u", Name: domain.UnassignedSectionName, TestCaseCount: 3},
	}

	lines := strings.Split(strings.TrimRight(stripANSI(RenderSectionTree("Regression", roots)), "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "Regression", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "├─ Login "), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], "[ 2 cases, 3 total ]"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "│  └─ SSO "), lines[2])
	assert.True(t, strings.HasSuffix(lines[2], "[ 1 case ]"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "├─ Checkout "), lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "└─ Unassigned "), lines[4])

	// Badges share one column.
	col := badgeColumn(lines[1])
	for _, l := range lines[2:] {
		assert.Equal(t, col, badgeColumn(l), l)
	}
}

func TestSectionTreeItems_LastChildClosesItsColumn(t *testing.T) {
	roots := []*domain.Section{
		{ID: "a", Name: "A", Children: []*domain.Section{
			{ID: "b", Name: "B", Children: []*domain.Section{
				{ID: "c", Name: "C"},
			}},
		}},
	}
	items := SectionTreeItems("Set", roots)
	require.Len(t, items, 4)
	assert.Equal(t, "", items[1].Prefix)
	assert.Equal(t, "   ", items[2].Prefix)
	assert.Equal(t, "      ", items[3].Prefix)
	assert.Equal(t, 3, items[3].Level)
	assert.True(t, items[3].IsLast)
}

func TestRenderTree_Empty(t *testing.T) {
	assert.Empty(t, RenderTree(nil))
}

func TestRenderRows(t *testing.T) {
	rows := sectiontree.Rows{
		{ID: "aaaaaaaa-1111", Name: "Login", Level: 1, TestCaseCount: 4},
		{ID: "bbbbbbbb-2222", Name: "SSO", Level: 2, ParentID: strPtr("aaaaaaaa-1111")},
		{ID: "uuuuuuuu-3333", Name: "Unassigned", Level: 1, Unassigned: true},
	}
	out := stripANSI(RenderRows(rows))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "SECTION")
	assert.Contains(t, lines[2], "Login")
	assert.Contains(t, lines[2], "aaaaaaaa")
	assert.NotContains(t, lines[2], "-1111")
	assert.Contains(t, lines[3], "  SSO")
	assert.Contains(t, lines[4], "Unassigned")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{"long value", "x"}, {"s", "y"}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
	assert.Equal(t, "──────────  ─", lines[1])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "abc…", PadRight("abcdef", 4))
	assert.Equal(t, "abcd", PadRight("abcd", 4))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 case", Plural(1, "case"))
	assert.Equal(t, "0 cases", Plural(0, "case"))
	assert.Equal(t, "7 sections", Plural(7, "section"))
}

func TestPriorityPill(t *testing.T) {
	assert.Contains(t, stripANSI(PriorityPill(domain.PriorityHigh)), "HIGH")
	assert.Contains(t, stripANSI(PriorityPill(domain.PriorityLow)), "LOW")
	assert.Contains(t, stripANSI(PriorityPill("odd")), "ODD")
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "12345678", stripANSI(TruncID("1234567890")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestSpinner_DrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	stop := StartSpinner(&buf, "Importing regression.yaml")
	stop()
	stop()

	out := buf.String()
	assert.Contains(t, stripANSI(out), "Importing regression.yaml")
	assert.True(t, strings.HasSuffix(out, "\r\033[K"), "line is cleared on stop")
}
