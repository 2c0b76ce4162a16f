// Package block implements the block grammar used by the prompt pipeline:
// building-block tags ([NAME]), complex-block tags (#Name#), and explanation
// spans ((...)). It provides the line scanner, the two-line grouping
// formatter, and the vocabulary store that backs validation.
package block
