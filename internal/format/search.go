package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
)

// Search renders search hits grouped by resource type. Groups appear in the
// order their first hit appears; hits keep their order within a group.
func Search(p *comicvine.SearchPage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Search Results for \"%s\"\n\n", p.Query)
	fmt.Fprintf(&sb, "Found %d total matches", p.NumberOfTotalResults)
	if len(p.Resources) > 0 {
		fmt.Fprintf(&sb, " in %s", strings.Join(p.Resources, ", "))
	} else {
		sb.WriteString(" across all content types")
	}
	fmt.Fprintf(&sb, " (showing %d results, starting from %d)\n\n", len(p.Results), p.Offset)

	var order []string
	groups := map[string][]*comicvine.SearchResult{}
	for i := range p.Results {
		r := &p.Results[i]
		if _, ok := groups[r.ResourceType]; !ok {
			order = append(order, r.ResourceType)
		}
		groups[r.ResourceType] = append(groups[r.ResourceType], r)
	}

	for _, typ := range order {
		items := groups[typ]
		fmt.Fprintf(&sb, "## %s (%d results)\n\n", TypeTitle(typ), len(items))
		for _, r := range items {
			writeSearchResult(&sb, r)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// TypeTitle turns a resource type into a heading: "story_arc" -> "Story Arc".
func TypeTitle(typ string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	return caser.String(strings.ReplaceAll(typ, "_", " "))
}

func writeSearchResult(sb *strings.Builder, r *comicvine.SearchResult) {
	switch r.ResourceType {
	case "character":
		sb.WriteString("### " + r.Name)
		if r.RealName != "" {
			fmt.Fprintf(sb, " (%s)", r.RealName)
		}
		sb.WriteString("\n")
		if r.Publisher != nil {
			writeField(sb, "Publisher", r.Publisher.Name)
		}
	case "issue":
		fmt.Fprintf(sb, "### %s\n", r.Title())
		if r.Volume != nil {
			writeField(sb, "Series", r.Volume.Name)
		}
		writeField(sb, "Cover Date", r.CoverDate)
	case "volume":
		fmt.Fprintf(sb, "### %s\n", r.Name)
		if r.Publisher != nil {
			writeField(sb, "Publisher", r.Publisher.Name)
		}
		writeField(sb, "Started", r.StartYear)
		if r.CountOfIssues != 0 {
			fmt.Fprintf(sb, "**Issues:** %d\n", r.CountOfIssues)
		}
	case "story_arc":
		fmt.Fprintf(sb, "### %s\n", r.Name)
		if r.Publisher != nil {
			writeField(sb, "Publisher", r.Publisher.Name)
		}
		if r.FirstAppearedInIssue != nil {
			writeField(sb, "First Appearance", r.FirstAppearedInIssue.Name)
		}
	case "publisher":
		fmt.Fprintf(sb, "### %s\n", r.Name)
		if r.LocationCity != "" && r.LocationState != "" {
			fmt.Fprintf(sb, "**Location:** %s, %s\n", r.LocationCity, r.LocationState)
		}
	default:
		fmt.Fprintf(sb, "### %s\n", r.Name)
	}
	if r.Deck != "" {
		sb.WriteString(r.Deck + "\n")
	}
	sb.WriteString("\n")
}
