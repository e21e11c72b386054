// Package update polls the project's release listing for a newer version.
// The result is purely informational and never affects core data.
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

// Version is the compiled-in application version.
const Version = "1.2.1"

// DefaultReleaseURL is the latest-release endpoint for this project.
const DefaultReleaseURL = "https://api.github.com/repos/ghchoi48/HomeRoom-Counseling-Manager/releases/latest"

// Release describes the outcome of a version check.
type Release struct {
	Latest string
	Newer  bool
}

// Client checks for newer releases.
type Client struct {
	HTTPClient *http.Client
	ReleaseURL string
	Current    string
}

// NewClient creates a checker with sane defaults.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		ReleaseURL: DefaultReleaseURL,
		Current:    Version,
	}
}

// Check fetches the latest release tag and compares it to the current version.
func (c *Client) Check(ctx context.Context) (Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ReleaseURL, nil)
	if err != nil {
		return Release{}, fmt.Errorf("build release request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("fetch latest release: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Release{}, fmt.Errorf("decode release payload: %w", err)
	}

	latest := strings.TrimSpace(payload.TagName)
	if latest == "" {
		return Release{}, fmt.Errorf("release payload has no tag name")
	}

	return Release{
		Latest: latest,
		Newer:  compareVersions(latest, c.Current) > 0,
	}, nil
}

// compareVersions compares dot-separated numeric versions, tolerating a
// leading "v". Non-numeric segments compare as zero.
func compareVersions(a, b string) int {
	as := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bs := strings.Split(strings.TrimPrefix(b, "v"), ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}
