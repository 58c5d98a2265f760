package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client looks tiers up from a JSON rank service:
//
//	GET {baseURL}/players/{puuid}/tier  ->  {"puuid": "...", "tier": 21}
//
// A 404 means the service does not know the player.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a rank service client. apiKey may be empty.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type tierResponse struct {
	PUUID string `json:"puuid"`
	Tier  int    `json:"tier"`
}

func (c *Client) Tier(ctx context.Context, puuid string) (int, error) {
	path := "/players/" + url.PathEscape(puuid) + "/tier"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, puuid)
	default:
		return 0, fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}

	var out tierResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode tier: %w", err)
	}
	if out.Tier < 0 {
		return 0, fmt.Errorf("GET %s: negative tier %d", path, out.Tier)
	}
	return out.Tier, nil
}
