package block

import "strings"

// DefaultWrapWidth is the formatter wrap width when none is configured.
const DefaultWrapWidth = 100

// Formatter re-renders scanned lines into a two-line display: a content line
// of parenthesized explanations grouped under their owning tag, and a tag
// line of the raw tags in the same order. The Nth content entry always
// corresponds to the Nth tag, so the two lines read as columns.
type Formatter struct {
	// Width is the wrap width in columns. Wrapping happens at entry
	// boundaries only, so a (...) or tag unit is never split. Zero means
	// DefaultWrapWidth; negative disables wrapping.
	Width int
}

// NewFormatter returns a Formatter wrapping at the given width.
func NewFormatter(width int) *Formatter {
	return &Formatter{Width: width}
}

// LineGroups holds the grouped rendering of one scanned line.
type LineGroups struct {
	// Content holds one entry per tag: the tag's explanations as
	// space-joined (...) units, or the "()" placeholder. Trailing entries
	// beyond len(Tags) are explanations that had no following tag.
	Content []string
	// Tags holds the raw tags in discovery order.
	Tags []string
}

// GroupLine walks the tokens of one line and attaches pending explanations
// to the next tag encountered. A tag with no pending explanation gets an
// empty "()" placeholder so content and tag entries stay 1:1. Explanations
// left over after the last tag become trailing ungrouped content entries.
func GroupLine(tokens []Token) LineGroups {
	var groups LineGroups
	var pending []string

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenExplanation:
			pending = append(pending, tok.Raw())
		case TokenBuildingBlock, TokenComplexBlock:
			entry := "()"
			if len(pending) > 0 {
				entry = strings.Join(pending, " ")
				pending = pending[:0]
			}
			groups.Content = append(groups.Content, entry)
			groups.Tags = append(groups.Tags, tok.Raw())
		}
	}

	groups.Content = append(groups.Content, pending...)
	return groups
}

// FormatLine renders one source line as wrapped content line(s) followed by
// wrapped tag line(s). Lines that scan to no tokens are returned unchanged.
func (f *Formatter) FormatLine(line string) []string {
	tokens := ScanLine(line)
	if len(tokens) == 0 {
		return []string{line}
	}

	groups := GroupLine(tokens)
	out := f.wrapEntries(groups.Content)
	out = append(out, f.wrapEntries(groups.Tags)...)
	return out
}

// Format renders a whole multi-paragraph text, preserving blank lines.
func (f *Formatter) Format(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, f.FormatLine(line)...)
	}
	return strings.Join(out, "\n")
}

// wrapEntries space-joins entries, starting a new line when the configured
// width would be exceeded. Entries are atomic: an entry longer than the
// width gets a line of its own rather than being split.
func (f *Formatter) wrapEntries(entries []string) []string {
	width := f.Width
	if width == 0 {
		width = DefaultWrapWidth
	}

	var lines []string
	var current strings.Builder
	for _, entry := range entries {
		if current.Len() == 0 {
			current.WriteString(entry)
			continue
		}
		if width > 0 && current.Len()+1+len(entry) > width {
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(entry)
			continue
		}
		current.WriteByte(' ')
		current.WriteString(entry)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	if lines == nil {
		lines = []string{""}
	}
	return lines
}
