package llm

import (
	"net/http"
	"sort"
	"sync"
)

// Provider adapts the generic completion request to one vendor's wire API.
// Implementations register themselves from init so that importing a
// provider package is enough to make it available by name.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "anthropic").
	Name() string

	// BuildURL constructs the full API endpoint URL.
	BuildURL(baseURL string) string

	// SetHeaders adds provider-specific headers to the request.
	SetHeaders(req *http.Request)

	// BuildRequestBody creates the JSON request body for the provider.
	// Options the provider does not support are ignored.
	BuildRequestBody(req Request) ([]byte, error)

	// ParseResponse extracts the response from provider-specific JSON.
	ParseResponse(body []byte) (*Response, error)
}

var (
	providerMu sync.RWMutex
	providers  = make(map[string]Provider)
)

// RegisterProvider makes p available to clients under its Name.
// The last registration for a name wins.
func RegisterProvider(p Provider) {
	providerMu.Lock()
	providers[p.Name()] = p
	providerMu.Unlock()
}

// GetProvider returns the provider registered under name, or nil.
func GetProvider(name string) Provider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return providers[name]
}

// ListProviders returns the registered provider names in sorted order.
func ListProviders() []string {
	providerMu.RLock()
	defer providerMu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
