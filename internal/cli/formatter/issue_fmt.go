package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
	"github.com/alexanderramin/plangraph/internal/graph"
)

// FormatSpan renders the stored dates of a node. Milestones show their due
// date only.
func FormatSpan(n *graph.Node) string {
	if n.Milestone {
		return FormatDate(n.Due)
	}
	if !calendar.IsSet(n.Start) && !calendar.IsSet(n.Due) {
		return "unscheduled"
	}
	return FormatDate(n.Start) + " → " + FormatDate(n.Due)
}

// IssueTree orders nodes depth-first under their loaded parents. Nodes whose
// parent is not loaded are roots. Siblings are sorted by start date, then id.
func IssueTree(nodes []*graph.Node) []TreeItem {
	byID := make(map[string]*graph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var roots []*graph.Node
	for _, n := range nodes {
		if _, ok := byID[n.ParentID]; !ok {
			roots = append(roots, n)
		}
	}
	sortSiblings(roots)

	var items []TreeItem
	var walk func(ns []*graph.Node, level int, open []bool)
	walk = func(ns []*graph.Node, level int, open []bool) {
		for i, n := range ns {
			last := i == len(ns)-1
			items = append(items, TreeItem{
				Title:     n.Subject,
				ID:        n.ID,
				Level:     level,
				Open:      open,
				IsLast:    last,
				Milestone: n.Milestone,
				Container: !n.Leaf,
				Badge:     FormatSpan(n),
			})

			var children []*graph.Node
			for _, cid := range n.Children {
				if c, ok := byID[cid]; ok {
					children = append(children, c)
				}
			}
			if len(children) == 0 {
				continue
			}
			sortSiblings(children)
			childOpen := open
			if level > 0 {
				childOpen = append(append([]bool(nil), open...), !last)
			}
			walk(children, level+1, childOpen)
		}
	}
	walk(roots, 0, nil)
	return items
}

func sortSiblings(ns []*graph.Node) {
	sort.SliceStable(ns, func(i, j int) bool {
		a, b := ns[i], ns[j]
		as, bs := sortDate(a), sortDate(b)
		if !as.Equal(bs) {
			if !calendar.IsSet(as) {
				return false
			}
			if !calendar.IsSet(bs) {
				return true
			}
			return as.Before(bs)
		}
		return a.ID < b.ID
	})
}

func sortDate(n *graph.Node) time.Time {
	if n.Milestone || !calendar.IsSet(n.Start) {
		return n.Due
	}
	return n.Start
}

// FormatIssueTree renders the issue hierarchy under a header.
func FormatIssueTree(nodes []*graph.Node) string {
	if len(nodes) == 0 {
		return Dim("No issues loaded.") + "\n"
	}
	return Header("Issues") + "\n" + RenderTree(IssueTree(nodes))
}

// FormatIssueTable renders one row per node in tree order.
func FormatIssueTable(nodes []*graph.Node, today time.Time) string {
	if len(nodes) == 0 {
		return Dim("No issues loaded.") + "\n"
	}
	byID := make(map[string]*graph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var rows [][]string
	for _, item := range IssueTree(nodes) {
		n := byID[item.ID]
		days := ""
		if !n.Milestone && calendar.IsSet(n.Start) && calendar.IsSet(n.Due) {
			days = strconv.Itoa(calendar.Between(n.Due, n.Start).Days())
		}
		due := ""
		if calendar.IsSet(n.Due) {
			due = RelativeDateFrom(n.Due, today)
		}
		rows = append(rows, []string{
			n.ID,
			strings.Repeat("  ", item.Level) + n.Subject,
			kind(n),
			FormatDate(n.Start),
			FormatDate(n.Due),
			days,
			due,
		})
	}
	t := Table{
		Headers: []string{"ID", "SUBJECT", "KIND", "START", "DUE", "DAYS", "DUE IN"},
		Rows:    rows,
		Right:   map[int]bool{5: true},
	}
	return t.Render()
}

func kind(n *graph.Node) string {
	switch {
	case n.Milestone:
		return StyleYellow.Render("milestone")
	case !n.Leaf:
		return Bold("container")
	default:
		return "issue"
	}
}

// FormatChanges renders the flushed change-set of one edit.
func FormatChanges(entries []graph.ChangeEntry, reconciled []string) string {
	if len(entries) == 0 {
		return Dim("No dates changed.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, formatISO(e.StartDate), formatISO(e.DueDate)})
	}

	var b strings.Builder
	b.WriteString(StyleGreen.Render(fmt.Sprintf("✔ %d issue(s) rescheduled", len(entries))) + "\n\n")
	b.WriteString(RenderTable([]string{"ID", "START", "DUE"}, rows))
	if len(reconciled) > 0 {
		b.WriteString("\n" + Dim("Adjusted to stored dates: "+strings.Join(reconciled, ", ")) + "\n")
	}
	return b.String()
}

// FormatLimits renders the feasible window of an issue.
func FormatLimits(id string, l graph.Limits) string {
	bound := func(t time.Time) string {
		if !calendar.IsSet(t) {
			return Dim("unbounded")
		}
		return FormatDate(t)
	}
	rows := [][]string{
		{"start", bound(l.MinStart), bound(l.MaxStart)},
		{"due", bound(l.MinDue), bound(l.MaxDue)},
	}
	return RenderBox("Limits #"+id, strings.TrimRight(RenderTable([]string{"", "EARLIEST", "LATEST"}, rows), "\n")) + "\n"
}

// FormatRelations renders every relation; dangling ones are flagged.
func FormatRelations(rels []*graph.Relation, dangling []*graph.Relation) string {
	if len(rels) == 0 {
		return Dim("No relations.") + "\n"
	}
	isDangling := make(map[string]bool, len(dangling))
	for _, r := range dangling {
		isDangling[r.ID] = true
	}

	rows := make([][]string, 0, len(rels))
	for _, r := range rels {
		delay := ""
		if r.Type == domain.RelationPrecedes {
			delay = strconv.Itoa(r.Delay)
		}
		state := ""
		if isDangling[r.ID] {
			state = StyleRed.Render("dangling")
		}
		rows = append(rows, []string{
			r.ID,
			r.FromID,
			RelationStyle(r.Type).Render(string(r.Type)),
			r.ToID,
			delay,
			state,
		})
	}
	t := Table{
		Headers: []string{"ID", "FROM", "TYPE", "TO", "DELAY", ""},
		Rows:    rows,
		Right:   map[int]bool{4: true},
	}
	return t.Render()
}

// FormatImport summarises a snapshot import.
func FormatImport(issues, relations, dangling int) string {
	msg := StyleGreen.Render(fmt.Sprintf("✔ Imported %d issue(s) and %d relation(s)", issues, relations))
	if dangling > 0 {
		msg += "\n" + StyleYellow.Render(fmt.Sprintf("  %d relation(s) reference issues outside the snapshot", dangling))
	}
	return msg + "\n"
}
