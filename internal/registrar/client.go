package registrar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/halvard/cms/internal/config"
	"github.com/halvard/cms/internal/metrics"
)

const (
	// maxAttempts bounds the total number of tries per request when the
	// registrar throttles us.
	maxAttempts = 5

	// defaultRetryAfter is used when a throttle response does not carry its
	// own retry delay.
	defaultRetryAfter = 30 * time.Second

	// listPageSize is the page size requested from the listing endpoint.
	listPageSize = 500
)

var (
	// ErrNotFound means the queried account does not own the domain. This is
	// an expected outcome and drives account rotation, not an error path.
	ErrNotFound = errors.New("domain not found")

	// ErrSkipDomain means the registrar kept throttling until the retry
	// budget ran out. The caller skips the domain and moves on.
	ErrSkipDomain = errors.New("domain skipped after rate limit retries")
)

// RawDomain is one domain record as returned by the registrar API, before
// normalization.
type RawDomain struct {
	Domain             string   `json:"domain"`
	Expires            string   `json:"expires"`
	Renewable          bool     `json:"renewable"`
	Status             string   `json:"status"`
	NameServers        []string `json:"nameServers"`
	RenewDeadline      string   `json:"renewDeadline,omitempty"`
	RegistrarCreatedAt string   `json:"registrarCreatedAt,omitempty"`
}

type listResponse struct {
	Data []RawDomain `json:"data"`
}

type errorEnvelope struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	RetryAfterSec int    `json:"retryAfterSec"`
}

// Client performs authenticated requests against a GoDaddy-compatible
// registrar API. It holds no per-account state; credentials are passed per
// call so one client serves every configured account.
type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With().Str("component", "registrar-client").Logger(),
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// GetDomain fetches the detail record for one domain from one account.
// Returns ErrNotFound when the account does not own the domain.
func (c *Client) GetDomain(ctx context.Context, account config.RegistrarAccount, name string) (*RawDomain, error) {
	endpoint := fmt.Sprintf("%s/v1/domains/%s", account.BaseURL, url.PathEscape(name))

	var raw RawDomain
	if err := c.getJSON(ctx, account, endpoint, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

// ListDomains fetches the full domain listing owned by one account, following
// marker pagination until a short page.
func (c *Client) ListDomains(ctx context.Context, account config.RegistrarAccount) ([]RawDomain, error) {
	var all []RawDomain
	marker := ""

	for {
		endpoint := fmt.Sprintf("%s/v1/domains?limit=%d", account.BaseURL, listPageSize)
		if marker != "" {
			endpoint += "&marker=" + url.QueryEscape(marker)
		}

		var page listResponse
		if err := c.getJSON(ctx, account, endpoint, &page); err != nil {
			return nil, err
		}

		all = append(all, page.Data...)
		if len(page.Data) < listPageSize {
			return all, nil
		}
		marker = page.Data[len(page.Data)-1].Domain
	}
}

// getJSON performs one authenticated GET, retrying on throttle responses up
// to maxAttempts total tries.
func (c *Client) getJSON(ctx context.Context, account config.RegistrarAccount, endpoint string, out any) error {
	for attempt := 1; ; attempt++ {
		retryAfter, err := c.doOnce(ctx, account, endpoint, out)
		if retryAfter == 0 {
			return err
		}

		metrics.RegistrarRateLimits.WithLabelValues(account.Label).Inc()
		if attempt >= maxAttempts {
			c.logger.Warn().Str("account", account.Label).Str("url", endpoint).
				Int("attempts", attempt).Msg("rate limit retries exhausted")
			return ErrSkipDomain
		}

		c.logger.Debug().Str("account", account.Label).Dur("retry_after", retryAfter).
			Int("attempt", attempt).Msg("registrar throttled, backing off")
		if err := c.sleep(ctx, retryAfter); err != nil {
			return err
		}
	}
}

// doOnce performs a single request. A non-zero retryAfter means the registrar
// throttled us and the caller should back off and retry.
func (c *Client) doOnce(ctx context.Context, account config.RegistrarAccount, endpoint string, out any) (retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create registrar request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("sso-key %s:%s", account.Key, account.Secret))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RegistrarRequests.WithLabelValues(account.Label, "error").Inc()
		return 0, fmt.Errorf("registrar request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RegistrarRequests.WithLabelValues(account.Label, "error").Inc()
		return 0, fmt.Errorf("read registrar response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		metrics.RegistrarRequests.WithLabelValues(account.Label, "ok").Inc()
		if err := json.Unmarshal(body, out); err != nil {
			return 0, fmt.Errorf("decode registrar response: %w", err)
		}
		return 0, nil
	}

	var envelope errorEnvelope
	_ = json.Unmarshal(body, &envelope)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || envelope.Code == "TOO_MANY_REQUESTS":
		metrics.RegistrarRequests.WithLabelValues(account.Label, "throttled").Inc()
		retryAfter = defaultRetryAfter
		if envelope.RetryAfterSec > 0 {
			retryAfter = time.Duration(envelope.RetryAfterSec) * time.Second
		}
		return retryAfter, nil
	case resp.StatusCode == http.StatusNotFound || envelope.Code == "NOT_FOUND":
		metrics.RegistrarRequests.WithLabelValues(account.Label, "not_found").Inc()
		return 0, ErrNotFound
	default:
		metrics.RegistrarRequests.WithLabelValues(account.Label, "error").Inc()
		return 0, fmt.Errorf("registrar responded %d: %s", resp.StatusCode, string(body))
	}
}
