package cli

import (
	"fmt"
	"strings"

	"lineage/application/queries"
	"lineage/domain/services"
	"lineage/pkg/common"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	pipe       = "│   "
	gap        = "    "
)

// RenderChart draws each visible root and its bounded subtree as an indented tree
func RenderChart(chart *queries.GetChartResult) string {
	var b strings.Builder

	b.WriteString(Styles.Title.Render("Awlyaa lineage"))
	b.WriteString("\n\n")

	if len(chart.Trees) == 0 {
		b.WriteString(Styles.Muted.Render("No lineage has been recorded yet."))
		b.WriteString("\n")
		return b.String()
	}

	for i, tree := range chart.Trees {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(label(tree))
		b.WriteString("\n")
		renderStudents(&b, tree.Students, "")
	}

	b.WriteString("\n")
	b.WriteString(renderPagination(chart.Pagination, "masters"))
	return b.String()
}

func renderStudents(b *strings.Builder, students []*services.TreeNode, prefix string) {
	for i, student := range students {
		last := i == len(students)-1
		connector, next := branchMid, pipe
		if last {
			connector, next = branchLast, gap
		}
		b.WriteString(Styles.Branch.Render(prefix + connector))
		b.WriteString(label(student))
		b.WriteString("\n")
		renderStudents(b, student.Students, prefix+next)
	}
}

func label(tree *services.TreeNode) string {
	name := Styles.Name.Render(tree.Node.Name)
	meta := fmt.Sprintf("#%s", tree.Node.ID)
	if tree.Node.UniqueID != "" {
		meta += " " + tree.Node.UniqueID
	}
	return name + " " + Styles.Muted.Render(meta)
}

func renderPagination(info *common.PaginationInfo, noun string) string {
	if info == nil {
		return ""
	}
	if info.ShowAll {
		return Styles.Muted.Render(fmt.Sprintf("Showing all %d %s", info.Total, noun)) + "\n"
	}
	line := fmt.Sprintf("Page %d of %d (%d %s)", info.Page, info.TotalPages, info.Total, noun)
	var hints []string
	if info.HasPrev {
		hints = append(hints, fmt.Sprintf("--page %d for previous", info.Page-1))
	}
	if info.HasNext {
		hints = append(hints, fmt.Sprintf("--page %d for next", info.Page+1))
	}
	if info.TotalPages > 1 {
		hints = append(hints, "--all to show every master")
	}
	if len(hints) > 0 {
		line += " · " + strings.Join(hints, ", ")
	}
	return Styles.Muted.Render(line) + "\n"
}

// RenderDetail draws the inspector panel of one node
func RenderDetail(detail *queries.GetNodeDetailResult) string {
	var b strings.Builder

	b.WriteString(Styles.Selected.Render(detail.Node.Name))
	b.WriteString("\n")
	b.WriteString(Styles.Muted.Render(fmt.Sprintf("#%s %s", detail.Node.ID, detail.Node.UniqueID)))
	b.WriteString("\n")
	b.WriteString(Styles.Muted.Render("Image: " + detail.ImageURL))
	b.WriteString("\n")
	if detail.ProfileURL != "" {
		b.WriteString("Biography: " + detail.ProfileURL + "\n")
	}

	if detail.Empty {
		b.WriteString("\n")
		b.WriteString(detail.EmptyMessage)
		return Styles.Panel.Render(b.String()) + "\n"
	}

	if len(detail.Parents) > 0 {
		b.WriteString("\n")
		b.WriteString(Styles.Heading.Render("Teachers"))
		b.WriteString("\n")
		for _, parent := range detail.Parents {
			line := fmt.Sprintf("• %s #%s", parent.Name, parent.TeacherNodeID)
			if parent.UniqueID != "" {
				line += " " + parent.UniqueID
			}
			if !parent.CreatedAt.IsZero() {
				line += " since " + parent.CreatedAt.Format("2006-01-02")
			}
			if !parent.Known {
				line += Styles.Muted.Render(" (not in chart)")
			}
			b.WriteString(line + "\n")
		}
	}

	if len(detail.Students) > 0 {
		b.WriteString("\n")
		b.WriteString(Styles.Heading.Render("Students"))
		b.WriteString("\n")
		for _, student := range detail.Students {
			b.WriteString(fmt.Sprintf("• %s #%s %s\n", student.Name, student.ID, student.UniqueID))
		}
	}

	return Styles.Panel.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

// RenderRoots lists one page of master teachers
func RenderRoots(result *queries.ListRootsResult) string {
	var b strings.Builder

	b.WriteString(Styles.Title.Render("Masters"))
	b.WriteString("\n\n")

	if len(result.Roots) == 0 {
		b.WriteString(Styles.Muted.Render("No lineage has been recorded yet."))
		b.WriteString("\n")
		return b.String()
	}

	for _, root := range result.Roots {
		students := "students"
		if root.StudentCount == 1 {
			students = "student"
		}
		b.WriteString(fmt.Sprintf("%s %s\n",
			Styles.Name.Render(root.Name),
			Styles.Muted.Render(fmt.Sprintf("#%s %s · %d %s", root.ID, root.UniqueID, root.StudentCount, students)),
		))
	}

	b.WriteString("\n")
	b.WriteString(renderPagination(result.Pagination, "masters"))
	return b.String()
}

// RenderError formats a command failure
func RenderError(err error) string {
	return Styles.Error.Render("Error: "+err.Error()) + "\n"
}
