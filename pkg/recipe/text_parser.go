package recipe

import (
	"regexp"
	"strings"

	"Recipe-Book/domain"
)

var (
	blankLine  = regexp.MustCompile(`\n[ \t]*\n`)
	listMarker = regexp.MustCompile(`(?i)^(?:[-*•·–]+\s*|\d+[.)](?:\s+|$)|step\s*\d+\s*[:.)-]?\s*)`)
)

// SplitTextIntoHeaderAndItems turns pasted ingredient or step text into titled groups.
//
// Blank lines separate blocks. A line ending in ':' or starting with '#' is a header and opens
// a new group. A block holding nothing but a header lends its title to the next block.
// Groups that end up without items are dropped.
func SplitTextIntoHeaderAndItems(text string) []domain.TextGroup {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	result := []domain.TextGroup{}
	pendingTitle := ""

	for _, block := range blankLine.Split(text, -1) {
		groups := splitBlock(block)
		if len(groups) == 0 {
			continue
		}

		if len(groups) == 1 && len(groups[0].Items) == 0 {
			pendingTitle = groups[0].Title
			continue
		}

		if pendingTitle != "" && groups[0].Title == "" {
			groups[0].Title = pendingTitle
		}
		pendingTitle = ""

		for _, g := range groups {
			if len(g.Items) > 0 {
				result = append(result, g)
			}
		}
	}

	return result
}

func splitBlock(block string) []domain.TextGroup {
	var groups []domain.TextGroup

	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if title, ok := headerTitle(line); ok {
			groups = append(groups, domain.TextGroup{Title: title, Items: []string{}})
			continue
		}

		item := stripListMarker(line)
		if item == "" {
			continue
		}
		if len(groups) == 0 {
			groups = append(groups, domain.TextGroup{Items: []string{}})
		}
		last := &groups[len(groups)-1]
		last.Items = append(last.Items, item)
	}

	return groups
}

func headerTitle(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, "#"):
		title := strings.TrimLeft(line, "#")
		return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(title), ":")), true
	case strings.HasSuffix(line, ":"):
		title := strings.TrimSpace(strings.TrimSuffix(line, ":"))
		return stripListMarker(title), true
	default:
		return "", false
	}
}

func stripListMarker(line string) string {
	return strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
}
