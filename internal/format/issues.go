package format

import (
	"fmt"
	"strings"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
)

func Issues(p *comicvine.Page[comicvine.Issue]) string {
	var sb strings.Builder
	writeListHeading(&sb, "Issues", p.Envelope)
	for i := range p.Results {
		issueBrief(&sb, &p.Results[i])
	}
	return sb.String()
}

func coverAlt(i *comicvine.Issue) string {
	if i.Name != "" {
		return i.Name
	}
	return "Issue Cover"
}

func writeIssueFacts(sb *strings.Builder, i *comicvine.Issue) {
	if i.Volume != nil && i.Volume.Name != "" {
		fmt.Fprintf(sb, "**Volume:** %s (ID: %d)\n", i.Volume.Name, i.Volume.ID)
	}
	writeField(sb, "Cover Date", i.CoverDate)
	writeField(sb, "Store Date", i.StoreDate)
}

func issueBrief(sb *strings.Builder, i *comicvine.Issue) {
	fmt.Fprintf(sb, "## %s (ID: %d)\n\n", i.Title(), i.ID)
	writeImage(sb, coverAlt(i), smallURL(i.Image))
	writeIssueFacts(sb, i)
	if i.Deck != "" {
		fmt.Fprintf(sb, "\n%s\n", i.Deck)
	}
	sb.WriteString(briefSeparator)
}

func Issue(i *comicvine.Issue) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s (ID: %d)\n\n", i.Title(), i.ID)
	writeImage(&sb, coverAlt(i), mediumURL(i.Image))
	writeIssueFacts(&sb, i)

	if i.Deck != "" {
		fmt.Fprintf(&sb, "\n## Overview\n%s\n", i.Deck)
	}
	if i.Description != "" {
		fmt.Fprintf(&sb, "\n## Description\n%s\n", i.Description)
	}

	writeSection(&sb, "Featured Characters", i.CharacterCredits)
	writeSection(&sb, "Teams", i.TeamCredits)
	writeCredits(&sb, i.PersonCredits)
	writeSection(&sb, "First Appearances - Characters", i.FirstAppearanceCharacters)
	writeSection(&sb, "First Appearances - Teams", i.FirstAppearanceTeams)
	writeSection(&sb, "Story Arcs", i.StoryArcCredits)
	return sb.String()
}

// writeCredits groups people by role, roles in first-seen order.
func writeCredits(sb *strings.Builder, credits []comicvine.Credit) {
	if len(credits) == 0 {
		return
	}
	var roles []string
	byRole := map[string][]string{}
	for _, c := range credits {
		if _, ok := byRole[c.Role]; !ok {
			roles = append(roles, c.Role)
		}
		byRole[c.Role] = append(byRole[c.Role], fmt.Sprintf("%s (ID: %d)", c.Name, c.ID))
	}

	sb.WriteString("\n## Credits\n")
	for _, role := range roles {
		fmt.Fprintf(sb, "- %s: %s\n", role, strings.Join(byRole[role], ", "))
	}
}
