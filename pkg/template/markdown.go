package template

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Inline styles applied to rendered HTML email. Email clients ignore
// stylesheets, so every element carries its own CSS.
const (
	blockQuoteStyle = "background: #F1F1F1; padding: 24px 24px 0.1px 24px; " +
		"font-family: Helvetica, Arial, sans-serif; font-size: 16px; line-height: 25px;"
	h1Style = "Margin: 0 0 16px 0; padding: 0; font-size: 32px; line-height: 38px; " +
		"font-weight: bold; color: #323A45;"
	h2Style = "Margin: 0 0 14px 0; padding: 0; font-size: 24px; line-height: 26px; " +
		"font-weight: bold; color: #323A45; font-family: Helvetica, Arial, sans-serif;"
	h3Style = "Margin: 0 0 12px 0; padding: 0; font-size: 20px; line-height: 26px; " +
		"font-weight: bold; color: #323A45; font-family: Helvetica, Arial, sans-serif;"
	h4Style = "Margin: 0 0 10px 0; padding: 0; font-size: 18px; line-height: 26px; " +
		"font-weight: bold; color: #323A45; font-family: Helvetica, Arial, sans-serif;"
	h5Style = "Margin: 0 0 8px 0; padding: 0; font-size: 16px; line-height: 24px; " +
		"font-weight: bold; color: #323A45; font-family: Helvetica, Arial, sans-serif;"
	h6Style = "Margin: 0 0 6px 0; padding: 0; font-size: 14px; line-height: 22px; " +
		"font-weight: bold; color: #323A45; font-family: Helvetica, Arial, sans-serif;"
	linkStyle        = "word-wrap: break-word; color: #004795;"
	listItemStyle    = "Margin: 5px 0 5px; padding: 0 0 0 5px; font-size: 16px; line-height: 25px; color: #323A45;"
	orderedListStyle = "Margin: 0 0 0 20px; padding: 0 0 20px 0; list-style-type: decimal; " +
		"font-family: Helvetica, Arial, sans-serif;"
	paragraphStyle     = "Margin: 0 0 20px 0; font-size: 16px; line-height: 25px; color: #323A45;"
	thematicBreakStyle = "border: 0; height: 1px; background: #BFC1C3; Margin: 30px 0 30px 0;"
	unorderedListStyle = "Margin: 0 0 0 20px; padding: 0 0 20px 0; list-style-type: disc; " +
		"font-family: Helvetica, Arial, sans-serif;"
)

// columnWidth is the fixed width of plain-text email dividers.
const columnWidth = 65

var headingStyles = map[int]string{1: h1Style, 2: h2Style, 3: h3Style, 4: h4Style, 5: h5Style, 6: h6Style}

var (
	emailMarkdown     goldmark.Markdown
	emailMarkdownOnce sync.Once
)

// renderEmailMarkdown converts markdown to HTML email body markup with inline
// styles. Block quotes use the non-standard ^ line convention, normalized by
// preprocessing before goldmark runs.
func renderEmailMarkdown(md string) string {
	emailMarkdownOnce.Do(func() {
		emailMarkdown = goldmark.New(
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(),
				renderer.WithNodeRenderers(
					util.Prioritized(newStyledEmailRenderer(), 500),
				),
			),
		)
	})

	var buf bytes.Buffer
	if err := emailMarkdown.Convert([]byte(preprocessMarkdown(md)), &buf); err != nil {
		// goldmark's Convert only fails on writer errors, which a
		// bytes.Buffer never produces.
		return md
	}
	return buf.String()
}

// preprocessMarkdown normalizes the template-authoring conventions into
// standard markdown: ^ block quotes, literal bullets, and missing spaces
// after list markers.
func preprocessMarkdown(md string) string {
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		lines[i] = normalizeListMarker(normalizeBlockQuote(line))
	}
	return strings.Join(lines, "\n")
}

var (
	caretQuote    = regexp.MustCompile(`^(\s*)\^(\s*)`)
	orderedMarker = regexp.MustCompile(`^(\s*)(\d+\.)(\S)`)
)

func normalizeBlockQuote(line string) string {
	return caretQuote.ReplaceAllString(line, "$1>$2")
}

// normalizeListMarker inserts the space markdown requires after list markers
// and converts the literal bullet to a standard marker.
func normalizeListMarker(line string) string {
	line = orderedMarker.ReplaceAllString(line, "$1$2 $3")

	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	if len(trimmed) == 0 {
		return line
	}
	marker, rest := trimmed[0:1], trimmed[1:]
	switch marker {
	case "*", "-", "+":
		// A doubled marker is emphasis or a rule, not a list item.
		if strings.HasPrefix(rest, marker) {
			return line
		}
		return indent + "- " + strings.TrimLeft(rest, " \t")
	}
	if strings.HasPrefix(trimmed, "•") {
		return indent + "- " + strings.TrimLeft(strings.TrimPrefix(trimmed, "•"), " \t")
	}
	return line
}

// styledEmailRenderer overrides goldmark's defaults to inject inline styles
// and to drop elements email clients mishandle (images, raw blocks).
type styledEmailRenderer struct {
	html.Config
}

func newStyledEmailRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &styledEmailRenderer{Config: html.NewConfig()}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *styledEmailRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)
	reg.Register(ast.KindImage, r.renderImage)
}

func (r *styledEmailRenderer) renderHeading(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		fmt.Fprintf(w, `<h%d style="%s">`, n.Level, headingStyles[n.Level])
	} else {
		fmt.Fprintf(w, "</h%d>\n", n.Level)
	}
	return ast.WalkContinue, nil
}

func (r *styledEmailRenderer) renderParagraph(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		fmt.Fprintf(w, `<p style="%s">`, paragraphStyle)
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}

func (r *styledEmailRenderer) renderList(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.List)
	tag, style := "ul", unorderedListStyle
	if n.IsOrdered() {
		tag, style = "ol", orderedListStyle
	}
	if entering {
		if n.IsOrdered() && n.Start != 1 {
			fmt.Fprintf(w, `<%s start="%d" role="presentation" style="%s">`, tag, n.Start, style)
		} else {
			fmt.Fprintf(w, `<%s role="presentation" style="%s">`, tag, style)
		}
		_ = w.WriteByte('\n')
	} else {
		fmt.Fprintf(w, "</%s>\n", tag)
	}
	return ast.WalkContinue, nil
}

func (r *styledEmailRenderer) renderListItem(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		fmt.Fprintf(w, `<li style="%s">`, listItemStyle)
	} else {
		_, _ = w.WriteString("</li>\n")
	}
	return ast.WalkContinue, nil
}

func (r *styledEmailRenderer) renderBlockquote(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		fmt.Fprintf(w, "<blockquote style=\"%s\">\n", blockQuoteStyle)
	} else {
		_, _ = w.WriteString("</blockquote>\n")
	}
	return ast.WalkContinue, nil
}

func (r *styledEmailRenderer) renderLink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if entering {
		_, _ = w.WriteString(`<a style="` + linkStyle + `" target="_blank" href="`)
		if r.Unsafe || !html.IsDangerousURL(n.Destination) {
			_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
		}
		_, _ = w.WriteString(`">`)
	} else {
		_, _ = w.WriteString("</a>")
	}
	return ast.WalkContinue, nil
}

func (r *styledEmailRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.AutoLink)
	if !entering {
		return ast.WalkContinue, nil
	}
	url := n.URL(source)
	label := n.Label(source)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
		url = append([]byte("mailto:"), url...)
	}
	_, _ = w.WriteString(`<a style="` + linkStyle + `" target="_blank" href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(url, false)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML(label))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

func (r *styledEmailRenderer) renderThematicBreak(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		fmt.Fprintf(w, "<hr style=\"%s\">\n", thematicBreakStyle)
	}
	return ast.WalkContinue, nil
}

// Email messages carry no client-managed images, so image markup is dropped.
func (r *styledEmailRenderer) renderImage(_ util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

var (
	markdownLink    = regexp.MustCompile(`\[([^\]]+)\]\((\S+?)\)`)
	headingMarker   = regexp.MustCompile(`^(#{1,6})\s*`)
	thematicBreakRe = regexp.MustCompile(`^\s*(\*{3,}|-{3,}|_{3,})\s*$`)
	emphasisMarks   = regexp.MustCompile(`(\*\*|__|\*|_)([^*_]+)(\*\*|__|\*|_)`)
)

// renderPlainTextMarkdown converts the markdown subset used in templates to
// plain text: headings become ruled lines, links become "text: url", bullets
// become the literal bullet character, and thematic breaks become a
// fixed-width rule. This subset converter is deliberate, the plain-text
// channel needs exact control of every emitted line.
func renderPlainTextMarkdown(md string) string {
	var out []string
	for _, line := range strings.Split(preprocessMarkdown(md), "\n") {
		switch {
		case thematicBreakRe.MatchString(line):
			out = append(out, strings.Repeat("=", columnWidth))
		case headingMarker.MatchString(line):
			marks := headingMarker.FindStringSubmatch(line)[1]
			txt := renderPlainInline(headingMarker.ReplaceAllString(line, ""))
			gap := "\n"
			if len(marks) == 1 {
				gap = "\n\n"
			}
			out = append(out, gap+txt, strings.Repeat("-", columnWidth))
		case strings.HasPrefix(strings.TrimLeft(line, " \t"), "- "):
			trimmed := strings.TrimLeft(line, " \t")
			out = append(out, "• "+renderPlainInline(strings.TrimPrefix(trimmed, "- ")))
		case strings.HasPrefix(strings.TrimLeft(line, " \t"), "> "):
			trimmed := strings.TrimLeft(line, " \t")
			out = append(out, renderPlainInline(strings.TrimPrefix(trimmed, "> ")))
		default:
			out = append(out, renderPlainInline(line))
		}
	}
	return strings.Join(out, "\n")
}

// renderPlainInline resolves inline markdown in a single line of plain text.
func renderPlainInline(line string) string {
	line = markdownLink.ReplaceAllString(line, "$1: $2")
	return emphasisMarks.ReplaceAllString(line, "$2")
}

// renderPreheaderMarkdown flattens markdown into the inline text email
// clients show before the body is opened: no heading markers, links reduced
// to their text, bullets kept as literal bullets.
func renderPreheaderMarkdown(md string) string {
	var out []string
	for _, line := range strings.Split(preprocessMarkdown(md), "\n") {
		if thematicBreakRe.MatchString(line) {
			continue
		}
		line = headingMarker.ReplaceAllString(line, "")
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "- ") {
			line = "• " + strings.TrimPrefix(trimmed, "- ")
		}
		if strings.HasPrefix(trimmed, "> ") {
			line = strings.TrimPrefix(trimmed, "> ")
		}
		line = markdownLink.ReplaceAllString(line, "$1")
		line = emphasisMarks.ReplaceAllString(line, "$2")
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
