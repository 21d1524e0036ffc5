package template

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// obscureWhitespace lists invisible characters stripped from user input:
// Mongolian vowel separator, zero width space, zero width non-joiner, zero
// width joiner, word joiner, zero width non-breaking space.
const obscureWhitespace = "\u180E\u200B\u200C\u200D\u2060\uFEFF"

var (
	whitespaceBeforePunctuation = regexp.MustCompile(`[ \t]+([,|.])`)
	spacedHyphens               = regexp.MustCompile(`\s+[-\x{2013}\x{2014}]{1,3}\s+`)
	dvlaMarkupTags              = regexp.MustCompile(`(?i)<(?:cr|h1|h2|p|normal|op|np|bul|tab)>`)
	bareURL                     = regexp.MustCompile(`(https?://[^\s<]+[^<.,:"')\]\s])`)
	emailLikeToken              = regexp.MustCompile(`(^|\s)\S+@\S+(\s|$)`)
	newlineRun                  = regexp.MustCompile(`\r\n|\r`)
)

var (
	stripPolicy     *bluemonday.Policy
	stripPolicyOnce sync.Once
)

// stripHTML removes all markup and HTML-escapes what remains.
func stripHTML(value string) string {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy.Sanitize(value)
}

// escapeHTML entity-encodes markup without removing it.
func escapeHTML(value string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(value)
}

// stripDVLAMarkup removes the fixed set of letter-composition markup tags.
func stripDVLAMarkup(value string) string {
	return dvlaMarkupTags.ReplaceAllString(value, "")
}

func addPrefix(body, prefix string) string {
	if prefix != "" {
		return strings.TrimSpace(prefix) + ": " + body
	}
	return body
}

func removeWhitespaceBeforePunctuation(value string) string {
	return whitespaceBeforePunctuation.ReplaceAllString(value, "$1")
}

func normaliseNewlines(value string) string {
	return newlineRun.ReplaceAllString(value, "\n")
}

// normaliseWhitespace trims the value and collapses all inner whitespace runs
// to a single space.
func normaliseWhitespace(value string) string {
	return strings.Join(strings.Fields(stripObscureWhitespace(value)), " ")
}

// stripObscureWhitespace removes invisible characters anywhere in the value
// and trims ordinary whitespace from both ends.
func stripObscureWhitespace(value string) string {
	for _, r := range obscureWhitespace {
		value = strings.ReplaceAll(value, string(r), "")
	}
	return strings.TrimSpace(value)
}

// stripWhitespace trims ordinary and obscure whitespace plus any extra
// characters from both ends of the value.
func stripWhitespace(value, extra string) string {
	return strings.Trim(value, " \t\n\r\v\f"+obscureWhitespace+extra)
}

func nl2br(value string) string {
	return strings.NewReplacer("\n", "<br>", "\r", "<br>").Replace(strings.TrimSpace(value))
}

// autolinkSMS wraps bare URLs in styled anchor tags for SMS previews.
func autolinkSMS(body string) string {
	return bareURL.ReplaceAllStringFunc(body, func(url string) string {
		return fmt.Sprintf(`<a style="%s" target="_blank" href="%s">%s</a>`, linkStyle, url, url)
	})
}

// makeQuotesSmart turns straight quotes into typographic ones. A quote opens
// after start-of-text, whitespace or an opening bracket, and closes
// everywhere else; apostrophes inside words always close.
func makeQuotesSmart(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	prev := rune(0)
	for i, r := range value {
		switch r {
		case '"':
			if opensQuote(i, prev) {
				b.WriteRune('“')
			} else {
				b.WriteRune('”')
			}
		case '\'':
			if opensQuote(i, prev) {
				b.WriteRune('‘')
			} else {
				b.WriteRune('’')
			}
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

func opensQuote(index int, prev rune) bool {
	if index == 0 {
		return true
	}
	switch prev {
	case ' ', '\t', '\n', '\r', '(', '[', '{', '“', '‘':
		return true
	}
	return false
}

// removeSmartQuotesFromEmailAddresses undoes smart-quote mangling inside
// anything that looks like an email address, so typography never corrupts a
// deliverable address. The match is deliberately wider than a strict address:
// everything between an at sign and the nearest whitespace.
func removeSmartQuotesFromEmailAddresses(value string) string {
	return emailLikeToken.ReplaceAllStringFunc(value, func(token string) string {
		return strings.NewReplacer("‘", "'", "’", "'").Replace(token)
	})
}

func replaceHyphensWithEnDashes(value string) string {
	return spacedHyphens.ReplaceAllString(value, " – ")
}

func stripLeadingWhitespace(value string) string {
	return strings.TrimLeft(value, " \t\n\r\v\f")
}

func addTrailingNewline(value string) string {
	return value + "\n"
}

// stripUnsupportedCharacters removes the line separator character, which
// email clients render inconsistently.
func stripUnsupportedCharacters(value string) string {
	return strings.ReplaceAll(value, " ", "")
}

// formattedList renders items as prose: "a", "a and b", "a, b and c".
func formattedList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

// niceTypography is the shared typography pass applied to rendered email
// subjects and bodies.
func niceTypography(value string) string {
	value = removeWhitespaceBeforePunctuation(value)
	value = makeQuotesSmart(value)
	value = removeSmartQuotesFromEmailAddresses(value)
	return replaceHyphensWithEnDashes(value)
}
