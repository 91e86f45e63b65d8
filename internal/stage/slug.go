package stage

import "strings"

// colorEscape starts a Minecraft formatting code such as "§a".
const colorEscape = '§'

const slugSeparator = '-'

func translateSlugRune(r rune) rune {
	switch r {
	case ' ', '/', '\\', '&', ',', ';', '=', ':':
		return slugSeparator
	}
	return r
}

func stripColorCodes(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == colorEscape:
			escaped = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Slugify turns a map display name into the directory name the map is staged under.
// The name is lowercased, characters unsafe in file names become '-', and formatting
// codes are removed. Each unsafe character maps to its own separator; runs are not
// collapsed.
func Slugify(name string) string {
	return stripColorCodes(strings.Map(translateSlugRune, strings.ToLower(name)))
}
