package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/scanview/pkg/model"
)

// Defaults for the public SCAN results repository.
const (
	DefaultGitHubOwner    = "Anonymous-SCAN"
	DefaultGitHubRepo     = "SCAN"
	DefaultGitHubPath     = "visualization_and_analysis/processed_data"
	DefaultGitHubTaxonomy = "visualization_and_analysis/" + model.TaxonomyFile
	DefaultGitHubAPI      = "https://api.github.com"

	githubTimeout = 30 * time.Second
)

// GitHubSource lists model files through the GitHub contents API and
// downloads each one from its download_url.
type GitHubSource struct {
	Owner        string
	Repo         string
	Path         string
	Ref          string
	TaxonomyPath string
	// BaseURL is the API root; tests point it at an httptest server.
	BaseURL string
	Client  *http.Client
}

// NewGitHubSource returns a source for the default repository layout.
func NewGitHubSource() *GitHubSource {
	return &GitHubSource{
		Owner:        DefaultGitHubOwner,
		Repo:         DefaultGitHubRepo,
		Path:         DefaultGitHubPath,
		TaxonomyPath: DefaultGitHubTaxonomy,
		BaseURL:      DefaultGitHubAPI,
	}
}

// contentItem is the subset of a contents API entry we use.
type contentItem struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

func (s *GitHubSource) Type() SourceType { return SourceTypeGitHub }

func (s *GitHubSource) Describe() string {
	d := fmt.Sprintf("github:%s/%s/%s", s.Owner, s.Repo, strings.Trim(s.Path, "/"))
	if s.Ref != "" {
		d += "@" + s.Ref
	}
	return d
}

// List returns the JSON files of the configured directory in API order.
func (s *GitHubSource) List(ctx context.Context) ([]Entry, error) {
	body, err := s.get(ctx, s.contentsURL(s.Path))
	if err != nil {
		return nil, fmt.Errorf("GitHub API error: %w. The repository might be private or the path doesn't exist", err)
	}

	var items []contentItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decoding contents listing: %w", err)
	}

	var entries []Entry
	for _, it := range items {
		if it.Type != "" && it.Type != "file" {
			continue
		}
		if !model.IsJSONFile(it.Name) || it.Name == model.TaxonomyFile {
			continue
		}
		loc := it.DownloadURL
		if loc == "" {
			loc = s.contentsURL(it.Path)
		}
		entries = append(entries, Entry{Name: it.Name, Location: loc, Size: it.Size})
	}
	return entries, nil
}

func (s *GitHubSource) Fetch(ctx context.Context, e Entry) ([]byte, error) {
	return s.get(ctx, e.Location)
}

// FetchTaxonomy resolves the taxonomy's download URL through the contents
// API, then downloads it.
func (s *GitHubSource) FetchTaxonomy(ctx context.Context) ([]byte, error) {
	body, err := s.get(ctx, s.contentsURL(s.TaxonomyPath))
	if err != nil {
		return nil, err
	}
	var item contentItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("decoding taxonomy entry: %w", err)
	}
	if item.DownloadURL == "" {
		return nil, fmt.Errorf("%s: no download_url: %w", s.TaxonomyPath, ErrNotFound)
	}
	return s.get(ctx, item.DownloadURL)
}

func (s *GitHubSource) contentsURL(p string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		base = DefaultGitHubAPI
	}
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", base,
		url.PathEscape(s.Owner), url.PathEscape(s.Repo), strings.Trim(p, "/"))
	if s.Ref != "" {
		u += "?ref=" + url.QueryEscape(s.Ref)
	}
	return u
}

func (s *GitHubSource) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return &http.Client{Timeout: githubTimeout}
}

func (s *GitHubSource) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "scanview")

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}
	return io.ReadAll(resp.Body)
}
