package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ReleasesURL is the GitHub endpoint for the newest published release.
const ReleasesURL = "https://api.github.com/repos/matheuskafuri/ainews/releases/latest"

// Result holds the outcome of a version check.
type Result struct {
	CurrentVersion string
	LatestVersion  string
	URL            string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type Checker struct {
	URL    string
	Client *http.Client
}

func NewChecker() *Checker {
	return &Checker{URL: ReleasesURL, Client: &http.Client{Timeout: 5 * time.Second}}
}

// Check asks the releases endpoint for the latest tag. It returns a nil
// Result when currentVersion is already the newest, or is a dev build.
func (c *Checker) Check(ctx context.Context, currentVersion string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checking for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checking for updates: %s", resp.Status)
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	current := strings.TrimPrefix(currentVersion, "v")
	if latest == "" || !newer(latest, current) {
		return nil, nil
	}
	return &Result{CurrentVersion: current, LatestVersion: latest, URL: release.HTMLURL}, nil
}

// newer compares dotted numeric versions. Anything that does not parse,
// such as "dev", is never reported as outdated.
func newer(latest, current string) bool {
	l, ok1 := parseVersion(latest)
	c, ok2 := parseVersion(current)
	if !ok1 || !ok2 {
		return false
	}
	for i := range 3 {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}

func parseVersion(v string) ([3]int, bool) {
	var out [3]int
	v, _, _ = strings.Cut(v, "-")
	parts := strings.Split(v, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return out, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return out, false
		}
		out[i] = n
	}
	return out, true
}
