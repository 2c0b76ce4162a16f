// Package source loads inspiration text for a pipeline run. A source
// reference is a local file path, "-" for stdin, or an HTTPS URL whose page
// content is reduced to readable markdown.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxStdinSize bounds inspiration read from stdin.
const maxStdinSize = 4 * 1024 * 1024

// Loader resolves inspiration references.
type Loader struct {
	fetcher *Fetcher
	stdin   io.Reader
}

// NewLoader creates a loader with a default web fetcher.
func NewLoader() *Loader {
	return &Loader{fetcher: NewFetcher(), stdin: os.Stdin}
}

// NewLoaderWith creates a loader with explicit dependencies. Used by tests.
func NewLoaderWith(fetcher *Fetcher, stdin io.Reader) *Loader {
	return &Loader{fetcher: fetcher, stdin: stdin}
}

// Load resolves ref to inspiration text.
func (l *Loader) Load(ctx context.Context, ref string) (string, error) {
	switch {
	case ref == "-":
		data, err := io.ReadAll(io.LimitReader(l.stdin, maxStdinSize))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil

	case strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://"):
		return l.fetcher.FetchMarkdown(ctx, ref)

	default:
		data, err := os.ReadFile(ref)
		if err != nil {
			return "", fmt.Errorf("read inspiration file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
}
