package format

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// NormalizeSpeaker canonicalizes a speaker name: lowercase the ident,
// then title-case it, so "npc", "NPC" and "Npc" all format the same.
func NormalizeSpeaker(name string) string {
	if name == "" {
		return name
	}
	return titleCaser.String(strings.ToLower(name))
}
