package block

import "strings"

// TokenKind identifies the grammar element a token represents.
type TokenKind int

const (
	// TokenExplanation is a parenthesized natural-language fragment: (text).
	TokenExplanation TokenKind = iota
	// TokenBuildingBlock is a structural category tag: [UPPER_SNAKE].
	TokenBuildingBlock
	// TokenComplexBlock is a semantic behavior tag: #Name#.
	TokenComplexBlock
)

// String returns a human-readable kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenExplanation:
		return "explanation"
	case TokenBuildingBlock:
		return "building-block"
	case TokenComplexBlock:
		return "complex-block"
	default:
		return "unknown"
	}
}

// Token is one grammar element scanned from a line. Text holds the inner
// content without the surrounding delimiters.
type Token struct {
	Kind TokenKind
	Text string
}

// Raw renders the token back in its delimited source form.
func (t Token) Raw() string {
	switch t.Kind {
	case TokenExplanation:
		return "(" + t.Text + ")"
	case TokenBuildingBlock:
		return "[" + t.Text + "]"
	case TokenComplexBlock:
		return "#" + t.Text + "#"
	default:
		return t.Text
	}
}

// artifactParagraph is the literal paragraph the skeleton instructions open
// with; it is discarded before any paragraph counting.
const artifactParagraph = "you are"

// SplitParagraphs splits text on blank-line boundaries, trims each paragraph,
// drops empty ones, and discards the "you are" artifact paragraph.
func SplitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.ToLower(p) == artifactParagraph {
			continue
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs
}
