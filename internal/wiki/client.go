// Package wiki retrieves evidence candidates from the MediaWiki action API.
package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agenthands/factcheck/internal/config"
	"github.com/agenthands/factcheck/internal/core/model"
)

// Retriever is the evidence source consumed by the pipeline.
type Retriever interface {
	Search(ctx context.Context, query, language string, limit int) ([]model.SearchHit, error)
	FetchContent(ctx context.Context, pageID int64, language string) (string, error)
	PageURL(pageID int64, language string) string
}

type Client struct {
	endpoint   string
	pageURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient builds a client with a bounded connection pool and a token-bucket
// limiter shared by every request to the encyclopedia.
func NewClient(cfg config.WikipediaConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.MaxIdleConns > 0 {
		transport.MaxIdleConns = cfg.MaxIdleConns
		transport.MaxIdleConnsPerHost = cfg.MaxIdleConns
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		endpoint:  cfg.Endpoint,
		pageURL:   cfg.PageURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Search runs a full-text search and returns hits in ranking order. An empty
// result is not an error.
func (c *Client) Search(ctx context.Context, query, language string, limit int) ([]model.SearchHit, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(limit))
	params.Set("srprop", "snippet")
	params.Set("format", "json")

	body, err := c.get(ctx, language, params)
	if err != nil {
		return nil, err
	}

	results := gjson.GetBytes(body, "query.search")
	if results.Exists() && !results.IsArray() {
		return nil, fmt.Errorf("%w: query.search is not an array", model.ErrRetrieval)
	}

	var hits []model.SearchHit
	for i, r := range results.Array() {
		pageID := r.Get("pageid")
		if pageID.Type != gjson.Number {
			return nil, fmt.Errorf("%w: search result %d has no pageid", model.ErrRetrieval, i)
		}
		hits = append(hits, model.SearchHit{
			Title:   r.Get("title").String(),
			Snippet: r.Get("snippet").String(),
			PageID:  pageID.Int(),
			Rank:    i,
		})
	}

	c.logger.Debug("wikipedia search",
		zap.String("language", language),
		zap.Int("hits", len(hits)))
	return hits, nil
}

// FetchContent returns the plain-text lead section of a page. A missing
// extract yields "" with no error.
func (c *Client) FetchContent(ctx context.Context, pageID int64, language string) (string, error) {
	id := strconv.FormatInt(pageID, 10)

	params := url.Values{}
	params.Set("action", "query")
	params.Set("pageids", id)
	params.Set("prop", "extracts")
	params.Set("exintro", "true")
	params.Set("explaintext", "true")
	params.Set("format", "json")

	body, err := c.get(ctx, language, params)
	if err != nil {
		return "", err
	}

	return gjson.GetBytes(body, "query.pages."+id+".extract").String(), nil
}

// PageURL is the user-facing link for a page id.
func (c *Client) PageURL(pageID int64, language string) string {
	return strings.NewReplacer(
		"{lang}", language,
		"{id}", strconv.FormatInt(pageID, 10),
	).Replace(c.pageURL)
}

func (c *Client) get(ctx context.Context, language string, params url.Values) ([]byte, error) {
	if !model.ValidLanguage(language) {
		return nil, fmt.Errorf("%w: invalid language %q", model.ErrRetrieval, language)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, fmt.Errorf("%w: %w", model.ErrRetrieval, err)
	}

	endpoint := strings.ReplaceAll(c.endpoint, "{lang}", language)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", model.ErrRetrieval, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", model.ErrRetrieval, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", model.ErrRetrieval, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", model.ErrRetrieval, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed JSON response", model.ErrRetrieval)
	}
	if apiErr := gjson.GetBytes(body, "error.info"); apiErr.Exists() {
		return nil, fmt.Errorf("%w: %s", model.ErrRetrieval, apiErr.String())
	}

	return body, nil
}
