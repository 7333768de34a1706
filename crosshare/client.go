// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package crosshare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html"
)

const (
	DefaultBaseURL   = "https://crosshare.org"
	DefaultTimeout   = 30 * time.Second
	DefaultCacheSize = 256

	nextDataID   = "__NEXT_DATA__"
	maxPageBytes = 8 << 20
)

var (
	ErrNoNextData     = errors.New("page has no __NEXT_DATA__ script")
	ErrPuzzleNotFound = errors.New("no puzzle data on page")
)

// StatusError is returned when Crosshare answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client reads puzzles out of Crosshare's server-rendered pages
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *lru.Cache[string, Puzzle]
}

type Option func(*Client)

// WithHTTPClient replaces the default client (30s timeout)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCacheSize sets how many fetched puzzles are kept in memory
func WithCacheSize(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			n = DefaultCacheSize
		}
		c.cache, _ = lru.New[string, Puzzle](n)
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cache, _ := lru.New[string, Puzzle](DefaultCacheSize)
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		cache:      cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPuzzleList returns the puzzles on one featured listing page.
// Pages start at 1; an empty slice means there are no more pages.
func (c *Client) FetchPuzzleList(ctx context.Context, page int) ([]PuzzleSummary, error) {
	if page < 1 {
		page = 1
	}
	pageURL := fmt.Sprintf("%s/featured/%d", c.baseURL, page)

	var data struct {
		Props struct {
			PageProps struct {
				Puzzles []PuzzleSummary `json:"puzzles"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := c.fetchNextData(ctx, pageURL, &data); err != nil {
		return nil, err
	}

	puzzles := data.Props.PageProps.Puzzles
	if puzzles == nil {
		puzzles = []PuzzleSummary{}
	}
	return puzzles, nil
}

// FetchPuzzle returns the full puzzle with the given Crosshare ID
func (c *Client) FetchPuzzle(ctx context.Context, id string) (Puzzle, error) {
	if p, ok := c.cache.Get(id); ok {
		return p, nil
	}

	pageURL := c.baseURL + "/crosswords/" + url.PathEscape(id)

	var data struct {
		Props struct {
			PageProps struct {
				Puzzle *Puzzle `json:"puzzle"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := c.fetchNextData(ctx, pageURL, &data); err != nil {
		return Puzzle{}, err
	}

	p := data.Props.PageProps.Puzzle
	if p == nil {
		return Puzzle{}, fmt.Errorf("puzzle %s: %w", id, ErrPuzzleNotFound)
	}
	if p.ID == "" {
		p.ID = id
	}

	c.cache.Add(id, *p)
	return *p, nil
}

func (c *Client) fetchNextData(ctx context.Context, pageURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	slog.Debug("crosshare fetch",
		"url", pageURL,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	raw, err := ExtractNextData(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return fmt.Errorf("%s: %w", pageURL, err)
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode page data from %s: %w", pageURL, err)
	}
	return nil
}

// ExtractNextData returns the text of the <script id="__NEXT_DATA__"> element
func ExtractNextData(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	script := findByID(doc, "script", nextDataID)
	if script == nil {
		return "", ErrNoNextData
	}

	var sb strings.Builder
	for child := script.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrNoNextData
	}
	return text, nil
}

func findByID(n *html.Node, tag, id string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && getAttr(n, "id") == id {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, tag, id); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
