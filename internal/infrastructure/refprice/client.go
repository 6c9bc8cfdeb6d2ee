package refprice

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	gocache "github.com/patrickmn/go-cache"

	"broker_market/pkg/httpx"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// estimate is the reference-price service's per-template answer.
type estimate struct {
	TemplateID   string `json:"template_id"`
	StaticPrice  int64  `json:"static_price"`
	DynamicPrice int64  `json:"dynamic_price"`
}

// Client fetches static and dynamic price estimates from the external
// reference-data service. Answers are cached briefly so one cache build
// doesn't hammer the service twice per template.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *gocache.Cache
}

func NewClient(baseURL string, timeout, cacheTTL time.Duration, token string) *Client {
	var transport http.RoundTripper = httpx.NewLoggingRoundTripper(http.DefaultTransport)
	if token != "" {
		transport = httpx.NewAuthBearerRoundTripper(transport, staticToken(token))
	}

	return &Client{
		httpClient: &http.Client{ //nolint:exhaustruct
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL: baseURL,
		cache:   gocache.New(cacheTTL, cacheTTL),
	}
}

func (c *Client) StaticPrice(ctx context.Context, templateID string) (int64, error) {
	est, err := c.estimate(ctx, templateID)
	if err != nil {
		return 0, err
	}
	return est.StaticPrice, nil
}

func (c *Client) DynamicPrice(ctx context.Context, templateID string) (int64, error) {
	est, err := c.estimate(ctx, templateID)
	if err != nil {
		return 0, err
	}
	return est.DynamicPrice, nil
}

func (c *Client) estimate(ctx context.Context, templateID string) (estimate, error) {
	if cached, ok := c.cache.Get(templateID); ok {
		if est, ok := cached.(estimate); ok {
			return est, nil
		}
	}

	endpoint := c.baseURL + "/v1/estimates/" + url.PathEscape(templateID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return estimate{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return estimate{}, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return estimate{}, fmt.Errorf("estimate %s: unexpected status %d", templateID, resp.StatusCode)
	}

	var est estimate
	if err := json.NewDecoder(resp.Body).Decode(&est); err != nil {
		return estimate{}, fmt.Errorf("json.Decode: %w", err)
	}

	c.cache.SetDefault(templateID, est)
	return est, nil
}

// staticToken satisfies the bearer authenticator with a preconfigured token.
type staticToken string

func (t staticToken) Authenticate(context.Context) error { return nil }
func (t staticToken) BearerToken() string                { return string(t) }
