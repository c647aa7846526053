package widget

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/fetch"
)

// githubTokenKey is the SecretStore key for an optional API token.
// Without it, lookups run against the unauthenticated rate limit.
const githubTokenKey = "github:token"

// github renders a repository's star count. Results are cached for
// LookupTTL keyed by lowercased "owner/repo"; on upstream failure an
// expired cache entry is served in preference to nothing.
func (r *Registry) github(ctx context.Context, w domain.Widget) Fragment {
	cfg := w.GitHubConfig()
	repo := strings.TrimSpace(cfg.Repo)
	label := cfg.Label
	if label == "" {
		label = repo
	}
	if repo == "" || !strings.Contains(repo, "/") {
		return placeholderFragment("github")
	}

	key := strings.ToLower(repo)
	if v, ok := r.lookups.Get(key); ok {
		return starsFragment(label, v.(int), cfg.FontSize)
	}

	stars, err := r.fetchStars(ctx, repo)
	if err != nil {
		log.Printf("widget: github %s lookup failed: %v", repo, err)
		if v, ok := r.lookups.GetStale(key); ok {
			return starsFragment(label, v.(int), cfg.FontSize)
		}
		return labelValueFragment(label, "—", cfg.FontSize)
	}

	r.lookups.Put(key, stars)
	return starsFragment(label, stars, cfg.FontSize)
}

func (r *Registry) fetchStars(ctx context.Context, repo string) (int, error) {
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if r.secrets != nil {
		if token, err := r.secrets.Get(githubTokenKey); err == nil && len(token) > 0 {
			headers["Authorization"] = "Bearer " + string(token)
		}
	}

	var resp struct {
		Stars int `json:"stargazers_count"`
	}
	url := "https://api.github.com/repos/" + repo
	if err := fetch.JSON(ctx, r.fetcher, url, headers, &resp); err != nil {
		return 0, err
	}
	return resp.Stars, nil
}

func starsFragment(label string, stars int, fontSize int) Fragment {
	return labelValueFragment(label, "★ "+formatCount(stars), fontSize)
}

// formatCount compacts large star counts the way the widget displays
// them on small screens: 12345 -> "12.3k".
func formatCount(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%.1fk", float64(n)/1000)
}
