package services

import (
	"strings"
	"unicode"
)

// Polish diacritics flattened for URL slugs
var slugReplacer = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n",
	"ó", "o", "ś", "s", "ź", "z", "ż", "z",
	"Ą", "a", "Ć", "c", "Ę", "e", "Ł", "l", "Ń", "n",
	"Ó", "o", "Ś", "s", "Ź", "z", "Ż", "z",
)

// Slugify turns a player name into a lowercase, hyphen-separated slug
func Slugify(name string) string {
	name = slugReplacer.Replace(name)
	name = strings.ToLower(name)

	var b strings.Builder
	lastHyphen := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
