package naver

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/growthscreen/pkg/config"
	"github.com/wonny/growthscreen/pkg/httputil"
	"github.com/wonny/growthscreen/pkg/logger"
	"github.com/wonny/growthscreen/pkg/redis"
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cache      *redis.Cache
	baseURL    string // finance.naver.com (HTML pages)
	apiBaseURL string // stock.naver.com (JSON APIs)
}

// NewClient creates a new Naver Finance client. cache may come from a
// disabled redis client, in which case every lookup misses.
func NewClient(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cache:      cache,
		baseURL:    cfg.Naver.BaseURL,
		apiBaseURL: cfg.Naver.APIBaseURL,
	}
}

// fetchHTML fetches an HTML page from Naver Finance.
func (c *Client) fetchHTML(ctx context.Context, url string) (string, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}
