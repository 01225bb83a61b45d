package format

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
)

func StoryArcs(p *comicvine.Page[comicvine.StoryArc]) string {
	var sb strings.Builder
	writeListHeading(&sb, "Story Arcs", p.Envelope)
	for i := range p.Results {
		storyArcBrief(&sb, &p.Results[i])
	}
	return sb.String()
}

func writeStoryArcFacts(sb *strings.Builder, a *comicvine.StoryArc) {
	writePublisherRef(sb, a.Publisher)
	if a.FirstAppearedInIssue != nil && a.FirstAppearedInIssue.Name != "" {
		writeField(sb, "First Appearance", issueRefLabel(a.FirstAppearedInIssue))
	}
}

func storyArcBrief(sb *strings.Builder, a *comicvine.StoryArc) {
	fmt.Fprintf(sb, "## %s (ID: %d)\n\n", a.Name, a.ID)
	writeImage(sb, a.Name, smallURL(a.Image))
	writeStoryArcFacts(sb, a)
	if a.Deck != "" {
		fmt.Fprintf(sb, "\n%s\n", a.Deck)
	}
	sb.WriteString(briefSeparator)
}

func StoryArc(a *comicvine.StoryArc) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s (ID: %d)\n\n", a.Name, a.ID)
	writeImage(&sb, a.Name, mediumURL(a.Image))
	writeStoryArcFacts(&sb, a)
	if a.CountOfIssueAppearances != 0 {
		fmt.Fprintf(&sb, "**Number of Issues:** %d\n", a.CountOfIssueAppearances)
	}

	if a.Deck != "" {
		fmt.Fprintf(&sb, "\n## Overview\n%s\n\n", a.Deck)
	}
	if a.Description != "" {
		fmt.Fprintf(&sb, "## Description\n%s\n\n", a.Description)
	}

	if len(a.Issues) > 0 {
		sb.WriteString("## Issues in this Story Arc\n")
		for _, is := range SortIssues(a.Issues) {
			fmt.Fprintf(&sb, "%s. %s (ID: %d)\n", is.IssueNumber, is.Name, is.ID)
		}
		sb.WriteString("\n")
	}
	writeBlock(&sb, "Related Movies", a.Movies, 0)
	return sb.String()
}

// SortIssues returns a copy of issues ordered by issue number, comparing
// digit runs numerically ("9" before "10"). Equal numbers keep their order.
func SortIssues(issues []comicvine.IssueRef) []comicvine.IssueRef {
	out := append([]comicvine.IssueRef(nil), issues...)
	// Collators keep scratch buffers, so each call gets its own.
	c := collate.New(language.Und, collate.Numeric)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].IssueNumber, out[j].IssueNumber) < 0
	})
	return out
}
