// Package format renders Comic Vine responses as Markdown.
//
// Every resource type has a list renderer (heading plus one brief block per
// result, in response order) and a detail renderer (heading plus optional
// sections). A section is written only when its field is present; nothing
// here ever prints a placeholder for a missing value.
package format

import (
	"fmt"
	"strings"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
)

const (
	briefSeparator = "\n---\n\n"
	notableLimit   = 10
)

func writeListHeading(sb *strings.Builder, title string, env comicvine.Envelope) {
	fmt.Fprintf(sb, "# Comic Book %s\n\n", title)
	fmt.Fprintf(sb, "Found %d %s (showing %d results, starting from %d)\n\n",
		env.NumberOfTotalResults, strings.ToLower(title), env.Limit, env.Offset)
}

func writeImage(sb *strings.Builder, alt, url string) {
	if url == "" {
		return
	}
	fmt.Fprintf(sb, "[![%s](%s)](%s)\n\n", alt, url, url)
}

func smallURL(img *comicvine.Image) string {
	if img == nil {
		return ""
	}
	return img.SmallURL
}

func mediumURL(img *comicvine.Image) string {
	if img == nil {
		return ""
	}
	return img.MediumURL
}

// writeRefs writes "- name (ID: id)" lines; max <= 0 means all.
func writeRefs(sb *strings.Builder, refs []comicvine.Ref, max int) {
	for i, r := range refs {
		if max > 0 && i >= max {
			break
		}
		fmt.Fprintf(sb, "- %s (ID: %d)\n", r.Name, r.ID)
	}
}

// writeSection writes "\n## heading\n" and the refs, when there are any.
func writeSection(sb *strings.Builder, heading string, refs []comicvine.Ref) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n", heading)
	writeRefs(sb, refs, 0)
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "**%s:** %s\n", label, value)
}

func writePublisherRef(sb *strings.Builder, p *comicvine.Ref) {
	if p == nil || p.Name == "" {
		return
	}
	fmt.Fprintf(sb, "**Publisher:** %s (ID: %d)\n", p.Name, p.ID)
}

func issueRefLabel(r *comicvine.IssueRef) string {
	return fmt.Sprintf("%s (#%s, ID: %d)", r.Name, r.IssueNumber, r.ID)
}
