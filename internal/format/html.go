package format

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const siteURL = "https://comicvine.gamespot.com"

// HTMLToMarkdown converts a Comic Vine description (HTML) into Markdown.
// It holds no state between calls. Relative links are resolved against the
// Comic Vine site. Input that fails to parse is returned trimmed.
func HTMLToMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	nodes, err := xhtml.ParseFragment(strings.NewReader(src), &xhtml.Node{Type: xhtml.ElementNode, DataAtom: atom.Div, Data: "div"})
	if err != nil {
		return strings.TrimSpace(src)
	}
	w := &mdWriter{}
	for _, n := range nodes {
		w.walk(n)
	}
	return w.finalize()
}

type listState struct {
	ordered bool
	n       int
}

// mdWriter emits Markdown. Line breaks are held in pendingNL until the next
// write so blank lines inside a quote can carry its marker.
type mdWriter struct {
	sb           strings.Builder
	lists        []listState
	quoteDepth   int
	inPre        bool
	verbatim     bool
	needSpace    bool
	pendingNL    int
	pendingDepth int
	tableRows    int
}

func (w *mdWriter) walk(n *xhtml.Node) {
	switch n.Type {
	case xhtml.TextNode:
		w.writeText(n.Data)
		return
	case xhtml.ElementNode:
	default:
		w.children(n)
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript:
		return
	case atom.Br:
		w.newline(1)
	case atom.Hr:
		w.newline(2)
		w.raw("---")
		w.newline(2)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		w.newline(2)
		w.raw(strings.Repeat("#", level) + " ")
		w.raw(w.inline(n))
		w.newline(2)
	case atom.Strong, atom.B:
		w.wrap(n, "**")
	case atom.Em, atom.I:
		w.wrap(n, "_")
	case atom.S, atom.Del, atom.Strike:
		w.wrap(n, "~~")
	case atom.Code:
		if w.inPre {
			w.children(n)
			return
		}
		if text := renderInline(n, true); text != "" {
			w.inlineText("`" + text + "`")
		}
	case atom.A:
		text := w.inline(n)
		href := resolveURL(getAttr(n, "href"))
		switch {
		case text == "":
		case href == "":
			w.inlineText(text)
		default:
			w.inlineText("[" + text + "](" + href + ")")
		}
	case atom.Img:
		src := getAttr(n, "data-src")
		if src == "" {
			src = getAttr(n, "src")
		}
		if src = resolveURL(src); src != "" {
			w.inlineText("![" + getAttr(n, "alt") + "](" + src + ")")
		}
	case atom.Ul, atom.Ol:
		w.lists = append(w.lists, listState{ordered: n.DataAtom == atom.Ol})
		w.newline(1)
		w.children(n)
		w.lists = w.lists[:len(w.lists)-1]
		if len(w.lists) == 0 {
			w.newline(2)
		} else {
			w.newline(1)
		}
	case atom.Li:
		w.newline(1)
		marker := "- "
		depth := len(w.lists)
		if depth > 0 {
			top := &w.lists[depth-1]
			top.n++
			if top.ordered {
				marker = fmt.Sprintf("%d. ", top.n)
			}
		} else {
			depth = 1
		}
		w.raw(strings.Repeat("  ", depth-1) + marker)
		w.children(n)
		w.newline(1)
	case atom.Blockquote:
		w.newline(2)
		w.quoteDepth++
		w.children(n)
		w.quoteDepth--
		w.newline(2)
	case atom.Pre:
		w.newline(2)
		w.raw("```")
		w.newline(1)
		w.inPre = true
		w.children(n)
		w.inPre = false
		w.newline(1)
		w.raw("```")
		w.newline(2)
	case atom.Table:
		rows := w.tableRows
		w.tableRows = 0
		w.newline(2)
		w.children(n)
		w.newline(2)
		w.tableRows = rows
	case atom.Tr:
		w.tableRow(n)
	default:
		if isBlockTag(n.DataAtom) {
			w.newline(2)
			w.children(n)
			w.newline(2)
			return
		}
		w.children(n)
	}
}

func (w *mdWriter) children(n *xhtml.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// inline renders the children of n on a single line.
func (w *mdWriter) inline(n *xhtml.Node) string {
	return renderInline(n, w.verbatim)
}

func renderInline(n *xhtml.Node, verbatim bool) string {
	sub := &mdWriter{verbatim: verbatim}
	sub.children(n)
	return strings.Join(strings.Fields(sub.sb.String()), " ")
}

// tableRow writes one pipe table row. The first row of a table is the header
// and is followed by the delimiter row.
func (w *mdWriter) tableRow(tr *xhtml.Node) {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, strings.ReplaceAll(w.inline(c), "|", `\|`))
		}
	}
	if len(cells) == 0 {
		return
	}
	w.newline(1)
	w.raw("| " + strings.Join(cells, " | ") + " |")
	if w.tableRows == 0 {
		w.newline(1)
		w.raw("|" + strings.Repeat(" --- |", len(cells)))
	}
	w.tableRows++
	w.newline(1)
}

func (w *mdWriter) wrap(n *xhtml.Node, marker string) {
	if text := w.inline(n); text != "" {
		w.inlineText(marker + text + marker)
	}
}

func isBlockTag(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.Figure, atom.Figcaption, atom.Dl, atom.Dt, atom.Dd:
		return true
	default:
		return false
	}
}

func getAttr(n *xhtml.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func resolveURL(href string) string {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	base, _ := url.Parse(siteURL)
	return base.ResolveReference(u).String()
}

// inlineText writes a pre-rendered fragment, honouring pending whitespace.
func (w *mdWriter) inlineText(s string) {
	if w.needSpace && !w.atLineStart() {
		w.raw(" ")
	}
	w.needSpace = false
	w.raw(s)
}

func (w *mdWriter) writeText(s string) {
	if s == "" {
		return
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	if w.inPre {
		for i, line := range strings.Split(s, "\n") {
			if i > 0 {
				w.lineBreak()
			}
			w.raw(line)
		}
		return
	}
	var word strings.Builder
	flush := func() {
		if word.Len() == 0 {
			return
		}
		start := w.atLineStart()
		if w.needSpace && !start {
			w.raw(" ")
		}
		w.needSpace = false
		text := word.String()
		if !w.verbatim {
			text = escapeMarkdown(text, start)
		}
		w.raw(text)
		word.Reset()
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			flush()
			w.needSpace = true
			continue
		}
		word.WriteRune(r)
	}
	flush()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
)

// escapeMarkdown backslash-escapes characters that would otherwise be read
// as Markdown. lineStart enables the block-level rules (headings, quotes,
// list markers) that only apply to the first word of a line.
func escapeMarkdown(word string, lineStart bool) string {
	word = markdownEscaper.Replace(word)
	if !lineStart {
		return word
	}
	switch {
	case strings.HasPrefix(word, "-"), strings.HasPrefix(word, ">"),
		strings.HasPrefix(word, "="), strings.HasPrefix(word, "~~~"):
		return `\` + word
	case word == "+", word == "#", word == "##", word == "###",
		word == "####", word == "#####", word == "######":
		return `\` + word
	}
	if rest := strings.TrimLeft(word, "0123456789"); rest == "." && len(word) > 1 {
		return word[:len(word)-1] + `\.`
	}
	return word
}

func (w *mdWriter) atLineStart() bool {
	return w.sb.Len() == 0 || w.pendingNL > 0
}

func (w *mdWriter) raw(s string) {
	if s == "" {
		return
	}
	start := w.atLineStart()
	if w.pendingNL > 0 {
		w.sb.WriteByte('\n')
		blank := strings.Repeat(">", min(w.pendingDepth, w.quoteDepth))
		for i := 1; i < w.pendingNL; i++ {
			w.sb.WriteString(blank)
			w.sb.WriteByte('\n')
		}
		w.pendingNL = 0
	}
	if start && w.quoteDepth > 0 {
		w.sb.WriteString(strings.Repeat("> ", w.quoteDepth))
	}
	w.sb.WriteString(s)
}

// newline ensures at least n line breaks before the next write.
func (w *mdWriter) newline(n int) {
	w.needSpace = false
	if w.sb.Len() == 0 {
		return
	}
	w.holdDepth()
	w.pendingNL = max(w.pendingNL, n)
}

// lineBreak adds one line break, keeping empty lines inside pre blocks.
func (w *mdWriter) lineBreak() {
	w.holdDepth()
	w.pendingNL++
}

// holdDepth records the shallowest quote depth seen while breaks are
// pending, so a blank line leaving or entering a quote is left unmarked.
func (w *mdWriter) holdDepth() {
	if w.pendingNL == 0 {
		w.pendingDepth = w.quoteDepth
		return
	}
	w.pendingDepth = min(w.pendingDepth, w.quoteDepth)
}

func (w *mdWriter) finalize() string {
	lines := strings.Split(w.sb.String(), "\n")
	for i := range lines {
		lines[i] = strings.TrimRightFunc(lines[i], unicode.IsSpace)
	}
	return strings.TrimSpace(collapseBlankLines(strings.Join(lines, "\n"), 1))
}

func collapseBlankLines(s string, max int) string {
	if max < 1 {
		max = 1
	}
	maxNewlines := max + 1
	nl := 0
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		if r == '\n' {
			nl++
			if nl > maxNewlines {
				continue
			}
			out.WriteRune(r)
			continue
		}
		nl = 0
		out.WriteRune(r)
	}
	return out.String()
}
