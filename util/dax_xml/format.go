package dax_xml

import (
	"regexp"
	"strings"
)

const indentUnit = "  "

var (
	selfContained = regexp.MustCompile(`^<[^/!?][^>]*>[^<]*</[^>]+>$`)
	selfClosing   = regexp.MustCompile(`^<[^/!?][^>]*/>$`)
	openingTag    = regexp.MustCompile(`^<[^/!?]`)
	closingTag    = regexp.MustCompile(`^</`)
)

// Format puts one element per line with two-space indentation.
//
// It works on the flat text, splitting at every "><" boundary: an opening
// tag indents the lines after it, a closing tag dedents itself, and
// self-closing or single-line <a>text</a> elements keep the level.
// Declarations, comments and other nodes are printed at the current level.
func Format(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	nodes := strings.Split(text, "><")
	var sb strings.Builder
	sb.Grow(len(text) + len(nodes)*8)

	depth := 0
	for i, node := range nodes {
		if i > 0 {
			node = "<" + node
		}
		if i < len(nodes)-1 {
			node += ">"
		}

		switch {
		case selfContained.MatchString(node), selfClosing.MatchString(node):
			writeLine(&sb, depth, node)
		case closingTag.MatchString(node):
			if depth > 0 {
				depth--
			}
			writeLine(&sb, depth, node)
		case openingTag.MatchString(node):
			writeLine(&sb, depth, node)
			depth++
		default:
			writeLine(&sb, depth, node)
		}
	}
	return sb.String()
}

func writeLine(sb *strings.Builder, depth int, node string) {
	sb.WriteString(strings.Repeat(indentUnit, depth))
	sb.WriteString(node)
	sb.WriteByte('\n')
}
