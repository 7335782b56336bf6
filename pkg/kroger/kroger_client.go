package kroger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"Recipe-Book/domain"
	"Recipe-Book/internal/utils"
	"Recipe-Book/internal/utils/metrics"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	defaultAPIURL = "https://api.kroger.com"
	productScope  = "product.compact"

	defaultRequestsPerMinute = 60
)

var userScopes = []string{"cart.basic:write", "profile.compact", productScope}

type (
	CartItem struct {
		UPC      string `json:"upc"`
		Quantity int    `json:"quantity"`
		Modality string `json:"modality"`
	}

	Client interface {
		AuthCodeURL(state string) string
		Exchange(ctx context.Context, code string) (*oauth2.Token, error)
		// Refresh returns tok when it is still valid, otherwise a token obtained with its refresh token.
		Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error)
		SearchLocations(ctx context.Context, zipCode string) ([]domain.KrogerLocation, error)
		SearchProducts(ctx context.Context, term, locationID string, limit int) ([]domain.KrogerProduct, error)
		AddToCart(ctx context.Context, tok *oauth2.Token, items []CartItem) error
	}

	ClientConfig struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
		BaseURL      string
		HTTPClient   *http.Client
		// RequestsPerMinute caps outbound API calls from this process. Zero means the default.
		RequestsPerMinute int
	}

	client struct {
		baseURL    string
		httpClient *http.Client
		oauth      *oauth2.Config
		appTokens  oauth2.TokenSource
		limiter    *rate.Limiter
	}
)

func ConfigFromEnv() ClientConfig {
	perMinute, _ := strconv.Atoi(utils.GetConfig("KROGER_RATE_PER_MINUTE"))
	return ClientConfig{
		ClientID:          utils.GetConfig("KROGER_CLIENT_ID"),
		ClientSecret:      utils.GetConfig("KROGER_CLIENT_SECRET"),
		RedirectURL:       utils.GetConfig("KROGER_REDIRECT_URL"),
		BaseURL:           utils.GetConfigDefault("KROGER_API_URL", defaultAPIURL),
		RequestsPerMinute: perMinute,
	}
}

// NewClient returns ErrKrogerNotConfigured when the client credentials are missing.
func NewClient(cfg ClientConfig) (Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, domain.ErrKrogerNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAPIURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = defaultRequestsPerMinute
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	endpoint := oauth2.Endpoint{
		AuthURL:   base + "/v1/connect/oauth2/authorize",
		TokenURL:  base + "/v1/connect/oauth2/token",
		AuthStyle: oauth2.AuthStyleInHeader,
	}

	app := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     endpoint.TokenURL,
		Scopes:       []string{productScope},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	c := &client{
		baseURL:    base,
		httpClient: cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute)/60, max(1, cfg.RequestsPerMinute/60)),
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       userScopes,
		},
	}
	c.appTokens = app.TokenSource(c.oauthContext(context.Background()))
	return c, nil
}

func (c *client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

func (c *client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := c.oauth.Exchange(c.oauthContext(ctx), code)
	metrics.KrogerRequestsTotal.WithLabelValues("token_exchange", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", domain.ErrKrogerRequestFailed, err)
	}
	return tok, nil
}

func (c *client) Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	if tok.Valid() {
		return tok, nil
	}
	fresh, err := c.oauth.TokenSource(c.oauthContext(ctx), tok).Token()
	metrics.KrogerRequestsTotal.WithLabelValues("token_refresh", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token: %v", domain.ErrKrogerRequestFailed, err)
	}
	return fresh, nil
}

func (c *client) SearchLocations(ctx context.Context, zipCode string) ([]domain.KrogerLocation, error) {
	q := url.Values{}
	q.Set("filter.zipCode.near", zipCode)
	q.Set("filter.limit", "10")

	var res locationsResponse
	err := c.getWithAppToken(ctx, "/v1/locations?"+q.Encode(), &res)
	metrics.KrogerRequestsTotal.WithLabelValues("locations", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	locations := make([]domain.KrogerLocation, 0, len(res.Data))
	for _, l := range res.Data {
		locations = append(locations, domain.KrogerLocation{
			LocationID: l.LocationID,
			Name:       l.Name,
			Chain:      l.Chain,
			Address:    joinNonEmpty(", ", l.Address.AddressLine1, l.Address.City, l.Address.State),
			ZipCode:    l.Address.ZipCode,
		})
	}
	return locations, nil
}

func (c *client) SearchProducts(ctx context.Context, term, locationID string, limit int) ([]domain.KrogerProduct, error) {
	q := url.Values{}
	q.Set("filter.term", term)
	q.Set("filter.limit", strconv.Itoa(limit))
	if locationID != "" {
		q.Set("filter.locationId", locationID)
	}

	var res productsResponse
	err := c.getWithAppToken(ctx, "/v1/products?"+q.Encode(), &res)
	metrics.KrogerRequestsTotal.WithLabelValues("products", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	products := make([]domain.KrogerProduct, 0, len(res.Data))
	for _, p := range res.Data {
		products = append(products, p.toDomain())
	}
	return products, nil
}

func (c *client) AddToCart(ctx context.Context, tok *oauth2.Token, items []CartItem) error {
	body, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/v1/cart/add", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	tok.SetAuthHeader(req)

	err = c.do(req, nil)
	metrics.KrogerRequestsTotal.WithLabelValues("cart_add", metrics.Outcome(err)).Inc()
	return err
}

func (c *client) getWithAppToken(ctx context.Context, path string, dest any) error {
	tok, err := c.appTokens.Token()
	if err != nil {
		return fmt.Errorf("%w: client credentials: %v", domain.ErrKrogerRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	tok.SetAuthHeader(req)

	return c.do(req, dest)
}

func (c *client) do(req *http.Request, dest any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("%w: rate limited: %v", domain.ErrKrogerRequestFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrKrogerRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status=%d body=%s", domain.ErrKrogerRequestFailed, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrKrogerRequestFailed, err)
	}
	return nil
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
