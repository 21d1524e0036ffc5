package charset

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Profile is a constrained output alphabet. Encoding maps every rune of the
// input through the profile: allowed runes pass unchanged, everything else is
// downgraded to an allowed equivalent where one exists, and replaced with "?"
// otherwise.
type Profile struct {
	allowed map[rune]struct{}
}

// SMS keeps text compatible with the GSM 03.38 alphabet while preserving
// Welsh, French, Inuktitut, Cree and Ojibwe characters that carriers deliver
// verbatim.
var SMS = NewProfile(
	gsmBasic + gsmExtension + welshNonGSM + frenchNonGSM + inuktitutChars + creeChars + ojibweChars,
)

// ASCII restricts text to printable ASCII (characters 32 to 126 inclusive).
var ASCII = NewProfile(asciiPrintable)

// WelshNonGSM holds the Welsh characters outside GSM 03.38. A message
// containing any of them is delivered with Unicode encoding, which changes
// the SMS fragment boundaries.
var WelshNonGSM = NewProfile(welshNonGSM)

// replacements covers characters with a sensible downgrade that Unicode
// decomposition cannot produce.
var replacements = map[rune]string{
	'–':      "-",   // en dash
	'—':      "-",   // em dash
	'…':      "...", // horizontal ellipsis
	'‘':      "'",   // left single quotation mark
	'’':      "'",   // right single quotation mark
	'“':      `"`,   // left double quotation mark
	'”':      `"`,   // right double quotation mark
	'\u200B': "",    // zero width space
	'\u00A0': "",    // non-breaking space
	'\t':     " ",
}

// NewProfile builds a profile allowing exactly the runes of chars.
func NewProfile(chars string) Profile {
	allowed := make(map[rune]struct{}, utf8.RuneCountInString(chars))
	for _, r := range chars {
		allowed[r] = struct{}{}
	}
	return Profile{allowed: allowed}
}

// Allows reports whether r is part of the profile's alphabet.
func (p Profile) Allows(r rune) bool {
	_, ok := p.allowed[r]
	return ok
}

// Encode maps every rune of content through EncodeRune.
func (p Profile) Encode(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	for _, r := range content {
		b.WriteString(p.EncodeRune(r))
	}
	return b.String()
}

// EncodeRune returns a compatible representation of r: the rune itself when
// allowed, a downgrade when one is known, and "?" otherwise. A downgrade may
// expand to several characters, e.g. the ellipsis becomes "...".
func (p Profile) EncodeRune(r rune) string {
	if p.Allows(r) {
		return string(r)
	}
	if downgraded, ok := downgradeRune(r); ok {
		return downgraded
	}
	return "?"
}

// NonCompatible returns the set of runes in content that Encode would replace
// with "?". Used for warning display, the content itself is left alone.
func (p Profile) NonCompatible(content string) map[rune]struct{} {
	out := map[rune]struct{}{}
	for _, r := range content {
		if p.Allows(r) {
			continue
		}
		if _, ok := downgradeRune(r); !ok {
			out[r] = struct{}{}
		}
	}
	return out
}

// downgradeRune attempts to map r onto a simpler equivalent. Characters with
// a canonical Unicode decomposition collapse to their base letter (é -> e);
// compatibility-only decompositions are deliberately ignored because there is
// no single obvious downgrade for them, so those fall through to the fixed
// replacement table.
func downgradeRune(r rune) (string, bool) {
	decomposed := norm.NFD.String(string(r))
	if first, size := utf8.DecodeRuneInString(decomposed); size > 0 && first != r && first != utf8.RuneError {
		return string(first), true
	}
	replacement, ok := replacements[r]
	return replacement, ok
}
