package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one row of a tree display.
type TreeItem struct {
	Title string
	ID    string
	Level int
	// Open holds, for each ancestor level below Level, whether that
	// ancestor still has siblings after it (so its guide line continues).
	Open      []bool
	IsLast    bool
	Milestone bool
	Container bool
	Badge     string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders items as an indented tree using box-drawing connectors.
// Milestones get a ◆ marker, containers are bold and badges are
// right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	maxWidth := 0
	for idx, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				if i-1 < len(item.Open) && item.Open[i-1] {
					prefix.WriteString(treePipe)
				} else {
					prefix.WriteString(treeBlank)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}

		title := item.Title
		switch {
		case item.Milestone:
			title = StyleYellow.Render("◆ ") + title
		case item.Container:
			title = Bold(title)
		}
		if item.ID != "" {
			title = StyleDim.Render(fmt.Sprintf("#%s ", item.ID)) + title
		}

		contents[idx] = StyleDim.Render(prefix.String()) + title
		if w := lipgloss.Width(contents[idx]); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for idx, item := range items {
		b.WriteString(contents[idx])
		if item.Badge != "" {
			pad := maxWidth - lipgloss.Width(contents[idx])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render("[ "+item.Badge+" ]"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
