// Package page loads an HTML page from a file or URL and lays it out so
// the widget can be dropped on it.
package page

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/dtnitsch/chartbuddy/pkg/dom"
	"github.com/dtnitsch/chartbuddy/pkg/extractor"
	"github.com/dtnitsch/chartbuddy/pkg/layout"
)

const maxPageBytes = 10 << 20

// Page is a loaded document with its layout.
type Page struct {
	Doc     *dom.Document
	Surface *layout.Surface
	Info    extractor.PageInfo
}

type Loader struct {
	client *http.Client
}

func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{
		client: &http.Client{Timeout: timeout},
	}
}

// Load reads source, which is either an http(s) URL or a file path.
func (l *Loader) Load(ctx context.Context, source string) (*Page, error) {
	if IsURL(source) {
		body, err := l.fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		return Parse(source, body)
	}

	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	body, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	return Parse("file://"+filepath.ToSlash(abs), body)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// Parse builds a Page from raw HTML served at pageURL.
func Parse(pageURL string, body []byte) (*Page, error) {
	doc, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	title := doc.Title()
	if title == "" {
		title = readableTitle(pageURL, body)
		// readability takes the first <title> anywhere, chart ones included.
		for _, n := range doc.Find("svg title") {
			if normalizeText(n.Text()) == title {
				title = ""
				break
			}
		}
	}

	return &Page{
		Doc:     doc,
		Surface: layout.New(doc.Root()),
		Info:    extractor.PageInfo{Title: title, URL: pageURL},
	}, nil
}

// readableTitle asks readability for a title when the page has no <title>.
func readableTitle(pageURL string, body []byte) string {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	rp := readability.NewParser()
	article, err := rp.Parse(bytes.NewReader(body), parsedURL)
	if err != nil {
		return ""
	}
	return normalizeText(article.Title)
}

func IsURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// normalizeText trims every line and joins the non-empty ones with a space.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
