package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	defaultBaseURL       = "https://registry.npmjs.org"
	defaultDownloadsURL  = "https://api.npmjs.org"
	defaultMaxConcurrent = 10
	defaultCacheTTL      = 5 * time.Minute

	abbreviatedAccept = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8"
)

// escapeName makes a package name safe for a registry path. Scoped names
// keep their "@" but encode the slash.
func escapeName(name string) string {
	if strings.HasPrefix(name, "@") {
		return "@" + url.PathEscape(name[1:])
	}
	return url.PathEscape(name)
}

// Client is an npm registry client
type Client struct {
	baseURL      string
	downloadsURL string
	http         *http.Client
	cache        Cache
	ttl          time.Duration
	sem          chan struct{}
}

// VersionList is the part of a packument needed to pick upgrade targets
type VersionList struct {
	Versions []string
	Latest   string
}

// Metadata describes a published package for the details view
type Metadata struct {
	Description     string
	Homepage        string
	License         string
	Author          string
	ReleaseNotesURL string
}

// NewClient creates a new registry client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		downloadsURL: defaultDownloadsURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: NewMemoryCache(),
		ttl:   defaultCacheTTL,
		sem:   make(chan struct{}, defaultMaxConcurrent),
	}
}

// WithCache sets a custom cache implementation
func (c *Client) WithCache(cache Cache) *Client {
	c.cache = cache
	return c
}

// WithCacheTTL sets how long responses stay cached
func (c *Client) WithCacheTTL(ttl time.Duration) *Client {
	if ttl > 0 {
		c.ttl = ttl
	}
	return c
}

// WithTimeout sets the per-request timeout
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.http.Timeout = timeout
	}
	return c
}

// WithMaxConcurrent bounds the number of requests in flight
func (c *Client) WithMaxConcurrent(n int) *Client {
	if n > 0 {
		c.sem = make(chan struct{}, n)
	}
	return c
}

// WithDownloadsURL sets the base URL of the download counts API
func (c *Client) WithDownloadsURL(downloadsURL string) *Client {
	if downloadsURL != "" {
		c.downloadsURL = strings.TrimSuffix(downloadsURL, "/")
	}
	return c
}

// Close releases the cache's background resources, if any
func (c *Client) Close() {
	if closer, ok := c.cache.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (c *Client) doRequest(ctx context.Context, url, accept string) ([]byte, error) {
	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("registry returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return io.ReadAll(resp.Body)
}

type packument struct {
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
}

// Versions fetches every published version of a package and its latest tag
func (c *Client) Versions(ctx context.Context, name string) (*VersionList, error) {
	cacheKey := name + "@versions"
	if cached, ok := c.cache.Get(cacheKey); ok {
		if list, ok := cached.(*VersionList); ok {
			return list, nil
		}
	}

	body, err := c.doRequest(ctx, c.baseURL+"/"+escapeName(name), abbreviatedAccept)
	if err != nil {
		return nil, err
	}

	var doc packument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding packument for %s: %w", name, err)
	}

	list := &VersionList{Latest: doc.DistTags["latest"]}
	for v := range doc.Versions {
		list.Versions = append(list.Versions, v)
	}
	sort.Strings(list.Versions)

	c.cache.Set(cacheKey, list, c.ttl)

	return list, nil
}

type manifestDoc struct {
	Description string          `json:"description"`
	Homepage    string          `json:"homepage"`
	License     json.RawMessage `json:"license"`
	Author      json.RawMessage `json:"author"`
	Repository  json.RawMessage `json:"repository"`
}

// Metadata fetches descriptive fields from the latest published manifest
func (c *Client) Metadata(ctx context.Context, name string) (*Metadata, error) {
	cacheKey := name + "@metadata"
	if cached, ok := c.cache.Get(cacheKey); ok {
		if meta, ok := cached.(*Metadata); ok {
			return meta, nil
		}
	}

	body, err := c.doRequest(ctx, c.baseURL+"/"+escapeName(name)+"/latest", "application/json")
	if err != nil {
		return nil, err
	}

	var doc manifestDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding manifest for %s: %w", name, err)
	}

	meta := &Metadata{
		Description:     strings.TrimSpace(doc.Description),
		Homepage:        doc.Homepage,
		License:         stringOrField(doc.License, "type"),
		Author:          stringOrField(doc.Author, "name"),
		ReleaseNotesURL: releaseNotesURL(stringOrField(doc.Repository, "url")),
	}

	c.cache.Set(cacheKey, meta, c.ttl)

	return meta, nil
}

type downloadsDoc struct {
	Downloads int64 `json:"downloads"`
}

// WeeklyDownloads fetches the download count for the last week
func (c *Client) WeeklyDownloads(ctx context.Context, name string) (int64, error) {
	cacheKey := name + "@downloads"
	if cached, ok := c.cache.Get(cacheKey); ok {
		if n, ok := cached.(int64); ok {
			return n, nil
		}
	}

	u := c.downloadsURL + "/downloads/point/last-week/" + escapeName(name)
	body, err := c.doRequest(ctx, u, "application/json")
	if err != nil {
		return 0, err
	}

	var doc downloadsDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return 0, fmt.Errorf("decoding downloads for %s: %w", name, err)
	}

	c.cache.Set(cacheKey, doc.Downloads, c.ttl)

	return doc.Downloads, nil
}

// stringOrField reads a manifest field that is either a plain string or an
// object carrying the value under key.
func stringOrField(raw json.RawMessage, key string) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	if v, ok := obj[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// releaseNotesURL maps a repository reference to its GitHub releases page.
// Non-GitHub repositories yield "".
func releaseNotesURL(repo string) string {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return ""
	}

	if rest, ok := strings.CutPrefix(repo, "github:"); ok {
		repo = "https://github.com/" + rest
	} else if !strings.Contains(repo, ":") && strings.Count(repo, "/") == 1 {
		repo = "https://github.com/" + repo
	}

	repo = strings.TrimPrefix(repo, "git+")
	repo = strings.Replace(repo, "git@github.com:", "https://github.com/", 1)
	repo = strings.Replace(repo, "git://", "https://", 1)
	repo = strings.Replace(repo, "ssh://git@", "https://", 1)

	u, err := url.Parse(repo)
	if err != nil || u.Host != "github.com" {
		return ""
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s/releases", parts[0], strings.TrimSuffix(parts[1], ".git"))
}
