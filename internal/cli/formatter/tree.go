package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a tree display. Prefix holds the connector
// columns of the line's ancestors.
type TreeItem struct {
	Title  string
	Prefix string
	Level  int
	IsLast bool
	Muted  bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders items as an indented tree using box-drawing
// connectors. Level 0 items are drawn without a connector. Detail badges
// are right-aligned in one column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	maxWidth := 0
	for i, item := range items {
		connector := ""
		if item.Level > 0 {
			connector = treeBranch
			if item.IsLast {
				connector = treeCorner
			}
		}
		title := StyleFg.Render(item.Title)
		if item.Muted {
			title = Dim(item.Title)
		}
		contents[i] = StyleDim.Render(item.Prefix+connector) + title
		if w := lipgloss.Width(contents[i]); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := max(maxWidth-lipgloss.Width(contents[i]), 0)
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SectionTreeItems lays out nested sections below a level 0 title line.
// Each detail shows the direct test case count, plus the subtree total
// when the section has children.
func SectionTreeItems(title string, roots []*domain.Section) []TreeItem {
	items := []TreeItem{{Title: title}}
	var walk func(nodes []*domain.Section, prefix string, level int)
	walk = func(nodes []*domain.Section, prefix string, level int) {
		for i, n := range nodes {
			last := i == len(nodes)-1
			items = append(items, TreeItem{
				Title:  n.Name,
				Prefix: prefix,
				Level:  level,
				IsLast: last,
				Muted:  n.IsUnassigned(),
				Detail: sectionDetail(n),
			})
			next := prefix + treePipe
			if last {
				next = prefix + treeBlank
			}
			walk(n.Children, next, level+1)
		}
	}
	walk(roots, "", 1)
	return items
}

func sectionDetail(n *domain.Section) string {
	if len(n.Children) == 0 {
		return Plural(n.TestCaseCount, "case")
	}
	return fmt.Sprintf("%s, %d total", Plural(n.TestCaseCount, "case"), totalCases(n))
}

func totalCases(n *domain.Section) int {
	total := n.TestCaseCount
	for _, c := range n.Children {
		total += totalCases(c)
	}
	return total
}

// RenderSectionTree draws a set's section forest.
func RenderSectionTree(setName string, roots []*domain.Section) string {
	return RenderTree(SectionTreeItems(setName, roots))
}
