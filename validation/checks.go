package validation

import (
	"fmt"
	"strings"

	"github.com/sunfoxy2k/antechamber/block"
)

// ParagraphCount requires the paragraph count, after artifact filtering, to
// fall within the closed interval [min, max].
func ParagraphCount(min, max int) Check {
	return func(text string) []string {
		count := len(block.SplitParagraphs(text))
		if count < min || count > max {
			return []string{fmt.Sprintf(
				"paragraph count is %d, must be between %d and %d (separate paragraphs with blank lines)",
				count, min, max)}
		}
		return nil
	}
}

// RequiredBlocks requires every named building block to appear verbatim as a
// [NAME] tag somewhere in the text. All missing names are reported as one
// error.
func RequiredBlocks(names []string) Check {
	return func(text string) []string {
		present := make(map[string]bool)
		for _, tok := range block.Tags(text) {
			if tok.Kind == block.TokenBuildingBlock {
				present[tok.Text] = true
			}
		}

		var missing []string
		for _, name := range names {
			if !present[name] {
				missing = append(missing, "["+name+"]")
			}
		}
		if len(missing) > 0 {
			return []string{fmt.Sprintf(
				"missing required building blocks: %s", strings.Join(missing, ", "))}
		}
		return nil
	}
}

// ComplexCoverage requires every complex block in the store to appear as a
// #Name# tag at least once across the whole text.
func ComplexCoverage(store *block.Store) Check {
	return func(text string) []string {
		present := make(map[string]bool)
		for _, tok := range block.Tags(text) {
			if tok.Kind == block.TokenComplexBlock {
				present[tok.Text] = true
			}
		}

		all := store.ComplexBlocks()
		var missing []string
		for _, name := range all {
			if !present[name] {
				missing = append(missing, "#"+name+"#")
			}
		}
		if len(missing) > 0 {
			return []string{fmt.Sprintf(
				"missing %d of %d complex blocks: %s",
				len(missing), len(all), strings.Join(missing, ", "))}
		}
		return nil
	}
}

// ParagraphComplexity requires at least minParagraphs paragraphs to each
// contain at least minDistinct distinct complex-block tags. Presence alone is
// not enough; the tags have to cluster.
func ParagraphComplexity(minParagraphs, minDistinct int) Check {
	return func(text string) []string {
		qualifying := 0
		for _, para := range block.SplitParagraphs(text) {
			distinct := make(map[string]bool)
			for _, tok := range block.Tags(para) {
				if tok.Kind == block.TokenComplexBlock {
					distinct[tok.Text] = true
				}
			}
			if len(distinct) >= minDistinct {
				qualifying++
			}
		}
		if qualifying < minParagraphs {
			return []string{fmt.Sprintf(
				"only %d paragraphs contain at least %d distinct complex blocks, need at least %d such paragraphs",
				qualifying, minDistinct, minParagraphs)}
		}
		return nil
	}
}

// SeparateExplanations requires every tag to carry its own preceding (...)
// explanation. A tag rendered with the "()" placeholder is sharing an
// explanation with an earlier tag (merged format) or has none at all.
func SeparateExplanations() Check {
	return func(text string) []string {
		var bare []string
		seen := make(map[string]bool)
		for _, line := range strings.Split(text, "\n") {
			groups := block.GroupLine(block.ScanLine(line))
			for i, tag := range groups.Tags {
				if groups.Content[i] == "()" && !seen[tag] {
					seen[tag] = true
					bare = append(bare, tag)
				}
			}
		}
		if len(bare) > 0 {
			return []string{fmt.Sprintf(
				"tags without their own explanation: %s (write each tag as (explanation) followed by the tag, never one explanation shared across tags)",
				strings.Join(bare, ", "))}
		}
		return nil
	}
}

// RegisteredTags rejects tag names outside the store's vocabularies. Used
// only in strict mode.
func RegisteredTags(store *block.Store) Check {
	return func(text string) []string {
		seen := make(map[string]bool)
		var unknown []string
		for _, tok := range block.Tags(text) {
			switch tok.Kind {
			case block.TokenBuildingBlock:
				if !store.HasBlock(tok.Text) && !seen[tok.Text] {
					seen[tok.Text] = true
					unknown = append(unknown, tok.Raw())
				}
			case block.TokenComplexBlock:
				if !store.HasComplex(tok.Text) && !seen[tok.Text] {
					seen[tok.Text] = true
					unknown = append(unknown, tok.Raw())
				}
			}
		}
		if len(unknown) > 0 {
			return []string{fmt.Sprintf(
				"unregistered tags: %s (use only the defined building and complex blocks)",
				strings.Join(unknown, ", "))}
		}
		return nil
	}
}

// NoTagLeakage rejects any [NAME] or #Name# literal anywhere in the text.
// The tag grammar is an intermediate format; final prose must not contain it.
func NoTagLeakage() Check {
	return func(text string) []string {
		var leaked []string
		seen := make(map[string]bool)
		for _, tok := range block.Tags(text) {
			raw := tok.Raw()
			if !seen[raw] {
				seen[raw] = true
				leaked = append(leaked, raw)
			}
		}
		if len(leaked) > 0 {
			return []string{fmt.Sprintf(
				"output must be plain prose but still contains tags: %s",
				strings.Join(leaked, ", "))}
		}
		return nil
	}
}

// NoToolMentions rejects text that names any of the given tools. The final
// prompt describes behavior; it must not enumerate the tool list supplied in
// the persona context.
func NoToolMentions(tools []string) Check {
	return func(text string) []string {
		lower := strings.ToLower(text)
		var mentioned []string
		for _, tool := range tools {
			tool = strings.TrimSpace(tool)
			if tool == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(tool)) {
				mentioned = append(mentioned, tool)
			}
		}
		if len(mentioned) > 0 {
			return []string{fmt.Sprintf(
				"output must not mention the user's tools by name: %s",
				strings.Join(mentioned, ", "))}
		}
		return nil
	}
}
