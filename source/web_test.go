package source

import (
	"net"
	"net/url"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "public https", url: "https://example.com/article", wantErr: false},
		{name: "http rejected", url: "http://example.com", wantErr: true},
		{name: "localhost", url: "https://localhost/admin", wantErr: true},
		{name: "loopback ip", url: "https://127.0.0.1/", wantErr: true},
		{name: "private ip", url: "https://10.0.0.8/", wantErr: true},
		{name: "local domain", url: "https://ci.internal/status", wantErr: true},
		{name: "mdns domain", url: "https://printer.local/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	private := []string{
		"127.0.0.1",
		"10.1.2.3",
		"172.16.0.1",
		"192.168.1.1",
		"169.254.1.1",
		"100.64.0.1",
		"::1",
		"fc00::1",
		"fe80::1",
		"::ffff:192.168.1.1",
	}
	for _, s := range private {
		if !isPrivateIP(net.ParseIP(s)) {
			t.Errorf("isPrivateIP(%s) = false, want true", s)
		}
	}

	public := []string{"8.8.8.8", "1.1.1.1", "2607:f8b0::1"}
	for _, s := range public {
		if isPrivateIP(net.ParseIP(s)) {
			t.Errorf("isPrivateIP(%s) = true, want false", s)
		}
	}
}

func TestReduce(t *testing.T) {
	page := []byte(`<html>
<head><title>Prompt Design Notes</title></head>
<body>
<article>
<h1>Prompt Design Notes</h1>
<p>Good prompts state the audience, the task, and the constraints.</p>
<p>They avoid enumerating internal tooling.</p>
</article>
<script>console.log("tracking")</script>
</body>
</html>`)

	pageURL, _ := url.Parse("https://example.com/notes")
	markdown, err := NewFetcher().Reduce(page, pageURL)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if !strings.Contains(markdown, "audience, the task, and the constraints") {
		t.Errorf("article text missing from markdown:\n%s", markdown)
	}
	if strings.Contains(markdown, "console.log") {
		t.Errorf("script content leaked into markdown:\n%s", markdown)
	}
	if !strings.HasPrefix(markdown, "# Prompt Design Notes") {
		t.Errorf("markdown must open with the page title heading:\n%s", markdown)
	}
}

func TestReduceSurfacesTitle(t *testing.T) {
	page := []byte(`<html>
<head><title>Notes on Prompts</title></head>
<body>
<article>
<p>Good prompts state the audience, the task, and the constraints.</p>
<p>They also describe the tone the assistant should keep.</p>
</article>
</body>
</html>`)

	pageURL, _ := url.Parse("https://example.com/notes")
	markdown, err := NewFetcher().Reduce(page, pageURL)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if !strings.HasPrefix(markdown, "# Notes on Prompts") {
		t.Errorf("title missing from markdown:\n%s", markdown)
	}
}

func TestReduceEmptyPage(t *testing.T) {
	pageURL, _ := url.Parse("https://example.com/empty")
	_, err := NewFetcher().Reduce([]byte("<html><body></body></html>"), pageURL)
	if err == nil {
		t.Error("expected error for page with no readable content")
	}
}

func TestPageTitle(t *testing.T) {
	page := []byte("<html><head><title>  My Page  </title></head><body></body></html>")
	if got := PageTitle(page); got != "My Page" {
		t.Errorf("PageTitle = %q", got)
	}
	if got := PageTitle([]byte("<html><body>no title</body></html>")); got != "" {
		t.Errorf("PageTitle without title = %q, want empty", got)
	}
}
