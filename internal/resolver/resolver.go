package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/Arthurvroum/odoo-ci/internal/domain"
)

// The download service has no documented API. The flow below simulates the
// browser: GET the post-authorization "thanks" page, then scrape the real
// CDN link out of its HTML. Two patterns are matched because the page
// sometimes embeds a full URL and sometimes only an opaque payload token.
const (
	thanksURLFormat  = "https://www.odoo.com/fr_FR/thanks/download?code=%s&platform_version=src_%se"
	payloadURLFormat = "https://download.odoocdn.com/download/%se/src?payload=%s"
)

var (
	directURLPattern = regexp.MustCompile(`https://download\.odoocdn\.com/download/[^"'&\s]+`)
	payloadPattern   = regexp.MustCompile(`payload=([^"'&\s]+)`)
)

// ErrNoDownloadURL means neither pattern matched the thanks page. Expected
// when the token is invalid or the page layout changed; not a crash.
var ErrNoDownloadURL = errors.New("no download URL found in the thanks page")

type Enterprise struct {
	client *http.Client
}

func New(timeout time.Duration) *Enterprise {
	return &Enterprise{client: &http.Client{Timeout: timeout}}
}

func NewWithClient(client *http.Client) *Enterprise {
	return &Enterprise{client: client}
}

// Resolve turns a canonical version and an access token into a direct CDN
// URL. A full URL found in the page wins over the payload fallback.
func (r *Enterprise) Resolve(ctx context.Context, version, token string) (string, error) {
	short := domain.ShortVersion(version)
	thanksURL := fmt.Sprintf(thanksURLFormat, token, short)

	req, err := http.NewRequestWithContext(ctx, "GET", thanksURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching thanks page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thanks page: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading thanks page: %w", err)
	}

	if m := directURLPattern.Find(body); m != nil {
		return string(m), nil
	}

	if m := payloadPattern.FindSubmatch(body); m != nil {
		return fmt.Sprintf(payloadURLFormat, short, m[1]), nil
	}

	return "", fmt.Errorf("%w (version %s)", ErrNoDownloadURL, version)
}
