package datasource

import (
	"fmt"
	"os"
	"strings"

	"github.com/vanderheijden86/scanview/pkg/model"
)

// GitHubPrefix marks a source spec that targets the GitHub contents API.
const GitHubPrefix = "github:"

// Open selects a source from a spec string:
//
//	github:owner/repo[/path][@ref]   GitHub contents API
//	snapshot.db / .sqlite / .sqlite3  SQLite snapshot
//	some/dir                          local directory of model files
//
// taxonomy overrides the default taxonomy location; for GitHub it is a
// path inside the repository.
func Open(spec, taxonomy string) (Source, error) {
	if spec == "" {
		spec = DefaultDataDir
	}

	if strings.HasPrefix(spec, GitHubPrefix) {
		gh, err := ParseGitHubSpec(strings.TrimPrefix(spec, GitHubPrefix))
		if err != nil {
			return nil, err
		}
		if taxonomy != "" {
			gh.TaxonomyPath = taxonomy
		}
		return gh, nil
	}

	info, err := os.Stat(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", spec, err)
	}
	if !info.IsDir() {
		if IsSQLitePath(spec) {
			return NewSQLiteSource(spec)
		}
		return nil, fmt.Errorf("%s is neither a directory nor a SQLite snapshot", spec)
	}
	return NewDirSource(spec, taxonomy), nil
}

// ParseGitHubSpec parses "owner/repo[/path][@ref]". Missing parts fall back
// to the default repository layout; the taxonomy is expected next to path.
func ParseGitHubSpec(s string) (*GitHubSource, error) {
	gh := NewGitHubSource()
	if s == "" {
		return gh, nil
	}

	if at := strings.LastIndex(s, "@"); at >= 0 {
		gh.Ref = s[at+1:]
		s = s[:at]
	}
	parts := strings.SplitN(strings.Trim(s, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid GitHub source %q: want owner/repo[/path][@ref]", s)
	}
	gh.Owner, gh.Repo = parts[0], parts[1]
	if len(parts) == 3 && parts[2] != "" {
		gh.Path = parts[2]
		if i := strings.LastIndex(gh.Path, "/"); i >= 0 {
			gh.TaxonomyPath = gh.Path[:i+1] + model.TaxonomyFile
		} else {
			gh.TaxonomyPath = model.TaxonomyFile
		}
	}
	return gh, nil
}
