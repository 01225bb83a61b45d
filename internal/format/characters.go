package format

import (
	"fmt"
	"strings"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
)

func Characters(p *comicvine.Page[comicvine.Character]) string {
	var sb strings.Builder
	writeListHeading(&sb, "Characters", p.Envelope)
	for i := range p.Results {
		characterBrief(&sb, &p.Results[i])
	}
	return sb.String()
}

func characterBrief(sb *strings.Builder, c *comicvine.Character) {
	fmt.Fprintf(sb, "## %s (ID: %d)\n\n", c.Name, c.ID)
	writeImage(sb, c.Name, smallURL(c.Image))
	writeField(sb, "Real Name", c.RealName)
	if c.Publisher != nil {
		writeField(sb, "Publisher", c.Publisher.Name)
	}
	if c.Deck != "" {
		fmt.Fprintf(sb, "\n%s\n", c.Deck)
	}
	sb.WriteString(briefSeparator)
}

// Character renders one character. The description is the only HTML field
// converted to Markdown.
func Character(c *comicvine.Character) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Character: %s (ID: %d)\n\n", c.Name, c.ID)
	writeImage(&sb, c.Name, mediumURL(c.Image))
	writeField(&sb, "Real Name", c.RealName)
	if c.Publisher != nil {
		writeField(&sb, "Publisher", c.Publisher.Name)
	}
	if c.Gender != comicvine.GenderOther {
		writeField(&sb, "Gender", c.Gender.String())
	}
	writeField(&sb, "Birth", c.Birth)

	if c.Deck != "" {
		fmt.Fprintf(&sb, "\n## Overview\n%s\n", c.Deck)
	}
	if c.Description != "" {
		fmt.Fprintf(&sb, "\n## Description\n%s\n", HTMLToMarkdown(c.Description))
	}

	writeSection(&sb, "Powers", c.Powers)
	writeSection(&sb, "Teams", c.Teams)
	writeSection(&sb, "Enemies", c.CharacterEnemies)
	writeSection(&sb, "Allies", c.CharacterFriends)
	return sb.String()
}
