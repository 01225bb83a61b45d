package format

import (
	"fmt"
	"strings"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
)

func Volumes(p *comicvine.Page[comicvine.Volume]) string {
	var sb strings.Builder
	writeListHeading(&sb, "Volumes", p.Envelope)
	for i := range p.Results {
		volumeBrief(&sb, &p.Results[i])
	}
	return sb.String()
}

func writeVolumeFacts(sb *strings.Builder, v *comicvine.Volume) {
	writePublisherRef(sb, v.Publisher)
	writeField(sb, "Started", v.StartYear)
	if v.CountOfIssues != 0 {
		fmt.Fprintf(sb, "**Issues:** %d\n", v.CountOfIssues)
	}
}

func volumeBrief(sb *strings.Builder, v *comicvine.Volume) {
	fmt.Fprintf(sb, "## %s (ID: %d)\n\n", v.Name, v.ID)
	writeImage(sb, v.Name, smallURL(v.Image))
	writeVolumeFacts(sb, v)
	if v.Deck != "" {
		fmt.Fprintf(sb, "\n%s\n", v.Deck)
	}
	sb.WriteString(briefSeparator)
}

func Volume(v *comicvine.Volume) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s (ID: %d)\n\n", v.Name, v.ID)
	writeImage(&sb, v.Name, mediumURL(v.Image))
	writeVolumeFacts(&sb, v)

	if v.Deck != "" {
		fmt.Fprintf(&sb, "\n## Overview\n%s\n", v.Deck)
	}
	if v.Description != "" {
		fmt.Fprintf(&sb, "\n## Description\n%s\n", v.Description)
	}

	if v.FirstIssue != nil || v.LastIssue != nil {
		sb.WriteString("\n## Publication Details\n")
		if v.FirstIssue != nil {
			fmt.Fprintf(&sb, "- First Issue: %s\n", issueRefLabel(v.FirstIssue))
		}
		if v.LastIssue != nil {
			fmt.Fprintf(&sb, "- Latest Issue: %s\n", issueRefLabel(v.LastIssue))
		}
	}

	if len(v.Characters) > 0 {
		sb.WriteString("\n## Notable Characters\n")
		writeRefs(&sb, v.Characters, notableLimit)
	}
	writeSection(&sb, "Concepts", v.Concepts)
	if len(v.People) > 0 {
		sb.WriteString("\n## Creators\n")
		for _, p := range v.People {
			role := ""
			if p.Role != "" {
				role = " (" + p.Role + ")"
			}
			fmt.Fprintf(&sb, "- %s%s (ID: %d)\n", p.Name, role, p.ID)
		}
	}
	writeSection(&sb, "Story Arcs", v.StoryArcs)
	return sb.String()
}
