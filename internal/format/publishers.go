package format

import (
	"fmt"
	"strings"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
)

func Publishers(p *comicvine.Page[comicvine.Publisher]) string {
	var sb strings.Builder
	writeListHeading(&sb, "Publishers", p.Envelope)
	for i := range p.Results {
		publisherBrief(&sb, &p.Results[i])
	}
	return sb.String()
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func publisherBrief(sb *strings.Builder, p *comicvine.Publisher) {
	fmt.Fprintf(sb, "## %s (ID: %d)\n\n", p.Name, p.ID)
	writeImage(sb, p.Name, smallURL(p.Image))
	writeField(sb, "Location", joinNonEmpty(p.LocationCity, p.LocationState, p.LocationCountry))
	if p.Deck != "" {
		fmt.Fprintf(sb, "\n%s\n", p.Deck)
	}
	sb.WriteString(briefSeparator)
}

func Publisher(p *comicvine.Publisher) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s (ID: %d)\n\n", p.Name, p.ID)
	writeImage(&sb, p.Name, mediumURL(p.Image))
	writeField(&sb, "Location", joinNonEmpty(p.LocationAddress, p.LocationCity, p.LocationState, p.LocationCountry))
	writeField(&sb, "Email", p.Email)
	writeField(&sb, "Phone", p.Phone)
	sb.WriteString("\n")

	if p.Deck != "" {
		fmt.Fprintf(&sb, "## Overview\n%s\n\n", p.Deck)
	}
	if p.Description != "" {
		fmt.Fprintf(&sb, "## Description\n%s\n\n", p.Description)
	}

	writeBlock(&sb, "Notable Series", p.Volumes, notableLimit)
	writeBlock(&sb, "Key Characters", p.Characters, notableLimit)
	writeBlock(&sb, "Teams", p.Teams, 0)
	writeBlock(&sb, "Story Arcs", p.StoryArcs, 0)
	return sb.String()
}

// writeBlock is the "## heading\n...\n" variant used by publisher pages.
func writeBlock(sb *strings.Builder, heading string, refs []comicvine.Ref, max int) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n", heading)
	writeRefs(sb, refs, max)
	sb.WriteString("\n")
}
