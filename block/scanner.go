package block

import "strings"

// ScanLine tokenizes one line of generated text into its ordered grammar
// elements. The scan is a single left-to-right pass:
//
//   - "(" opens an explanation closed by the nearest ")" (non-nesting)
//   - "[" opens a building-block tag when the bracketed run is UPPER_SNAKE
//   - "#" opens a complex-block tag closed by the next "#"
//
// Unmatched or malformed delimiters produce no token; the scanner simply
// moves past them. Plain prose between tokens is ignored.
func ScanLine(line string) []Token {
	var tokens []Token

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '(':
			end := strings.IndexByte(line[i+1:], ')')
			if end < 0 {
				continue
			}
			tokens = append(tokens, Token{Kind: TokenExplanation, Text: line[i+1 : i+1+end]})
			i += 1 + end

		case '[':
			end := strings.IndexByte(line[i+1:], ']')
			if end < 0 {
				continue
			}
			name := line[i+1 : i+1+end]
			if !isUpperSnake(name) {
				continue
			}
			tokens = append(tokens, Token{Kind: TokenBuildingBlock, Text: name})
			i += 1 + end

		case '#':
			end := strings.IndexByte(line[i+1:], '#')
			if end < 0 {
				continue
			}
			name := line[i+1 : i+1+end]
			if name == "" {
				// "##" carries no tag; skip the opening hash only so a
				// following "#Name#" still scans.
				continue
			}
			tokens = append(tokens, Token{Kind: TokenComplexBlock, Text: name})
			i += 1 + end
		}
	}

	return tokens
}

// Scan tokenizes every line of a multi-line text, preserving line order.
func Scan(text string) [][]Token {
	lines := strings.Split(text, "\n")
	out := make([][]Token, len(lines))
	for i, line := range lines {
		out[i] = ScanLine(line)
	}
	return out
}

// Tags returns only the building-block and complex-block tokens of a text,
// in scan order.
func Tags(text string) []Token {
	var tags []Token
	for _, line := range Scan(text) {
		for _, tok := range line {
			if tok.Kind == TokenBuildingBlock || tok.Kind == TokenComplexBlock {
				tags = append(tags, tok)
			}
		}
	}
	return tags
}

// isUpperSnake reports whether s is a nonempty run of [A-Z_] characters,
// the only form a building-block name may take.
func isUpperSnake(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && c != '_' {
			return false
		}
	}
	return true
}
