// Package charset maps arbitrary Unicode text onto constrained output
// alphabets, primarily the GSM 03.38 character set used for SMS delivery.
//
// A Profile holds the allowed alphabet. Characters outside it are downgraded
// where a sensible equivalent exists (accented letters lose their diacritics,
// smart quotes become ASCII quotes, dashes become hyphens) and replaced with
// "?" where none does:
//
//	charset.SMS.Encode("Zoë — “hi”")   // "Zoe - \"hi\""
//	charset.SMS.Encode("你好")          // "??"
//
// NonCompatible reports which characters would be lost without mutating the
// text, so callers can warn before sending:
//
//	chars := charset.SMS.NonCompatible(message)
//
// Two profiles ship with the package: SMS (GSM-compatible plus Welsh, French
// and Indigenous-language scripts) and ASCII (printable ASCII only).
package charset
