package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker answers robots.txt questions for article fetches.
// One parsed robots.txt is kept per scheme and host.
type RobotsChecker struct {
	client *http.Client
	agent  string

	mu    sync.RWMutex
	hosts map[string]robotsEntry
}

// robotsEntry is one host's parsed robots.txt. Server errors disallow the whole host.
type robotsEntry struct {
	data        *robotstxt.RobotsData
	disallowAll bool
}

// NewRobotsChecker creates a checker that matches groups by the product token of userAgent.
// A nil client gets a plain client with a 10s timeout.
func NewRobotsChecker(userAgent string, client *http.Client) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsChecker{
		client: client,
		agent:  NormalizeUserAgent(userAgent),
		hosts:  make(map[string]robotsEntry),
	}
}

// CanFetch reports whether rawURL may be fetched and the crawl delay that applies.
// An unreachable robots.txt allows the fetch.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false, 0, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	entry, err := r.load(ctx, u)
	if err != nil {
		return true, 0, nil
	}
	if entry.disallowAll {
		return false, 0, nil
	}

	group := entry.data.FindGroup(r.agent)
	if group == nil {
		return true, 0, nil
	}
	return group.Test(u.RequestURI()), group.CrawlDelay, nil
}

func (r *RobotsChecker) load(ctx context.Context, u *url.URL) (robotsEntry, error) {
	origin := u.Scheme + "://" + u.Host

	r.mu.RLock()
	entry, ok := r.hosts[origin]
	r.mu.RUnlock()
	if ok {
		return entry, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return robotsEntry{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.client.Do(req)
	if err != nil {
		return robotsEntry{}, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 4xx parses as allow-all
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return robotsEntry{}, fmt.Errorf("parse robots.txt: %w", err)
	}
	entry = robotsEntry{data: data, disallowAll: resp.StatusCode >= 500}

	r.mu.Lock()
	r.hosts[origin] = entry
	r.mu.Unlock()
	return entry, nil
}

// Reset forgets every cached robots.txt
func (r *RobotsChecker) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosts = make(map[string]robotsEntry)
}

// NormalizeUserAgent returns the product token of a user agent ("Centauri/0.1 (+url)" -> "Centauri")
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.Split(parts[0], "/")[0]
}
