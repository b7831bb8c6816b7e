package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/testdeck/internal/sectiontree"
)

// RenderRows prints the flattened, level-annotated section list. Names are
// indented two spaces per level below the first.
func RenderRows(rows sectiontree.Rows) string {
	headers := []string{"#", "LVL", "SECTION", "CASES", "ID"}
	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		name := strings.Repeat("  ", r.Level-1) + r.Name
		if r.Unassigned {
			name = strings.Repeat("  ", r.Level-1) + Dim(r.Name)
		}
		out = append(out, []string{
			strconv.Itoa(i),
			strconv.Itoa(r.Level),
			name,
			strconv.Itoa(r.TestCaseCount),
			TruncID(r.ID),
		})
	}
	return RenderTable(headers, out)
}
