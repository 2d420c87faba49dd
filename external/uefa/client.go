package uefa

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/pollahq/polla-champions/internal/domain/standings"
	"github.com/pollahq/polla-champions/internal/platform/logging"
	"github.com/pollahq/polla-champions/internal/platform/resilience"
	"github.com/pollahq/polla-champions/internal/usecase"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; PollaBot/1.0)"
	maxResponseBytes = 6 << 20
)

var errUEFATransient = crerr.New("uefa transient failure")

type ClientConfig struct {
	HTTPClient       *http.Client
	StandingsURLByID map[string]string
	Timeout          time.Duration
	MaxRetries       int
	Logger           *logging.Logger
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// Client scrapes competition standings pages. The page markup is treated as
// untrusted: parsing failures surface the same unavailable condition as
// network errors so callers can fall back uniformly.
type Client struct {
	httpClient       *http.Client
	standingsURLByID map[string]string
	maxRetries       int
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
	circuitEnabled   bool
	flight           resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	urls := make(map[string]string, len(cfg.StandingsURLByID))
	for competitionID, rawURL := range cfg.StandingsURLByID {
		competitionID = strings.TrimSpace(competitionID)
		rawURL = strings.TrimSpace(rawURL)
		if competitionID == "" || rawURL == "" {
			continue
		}
		urls[competitionID] = rawURL
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:       httpClient,
		standingsURLByID: urls,
		maxRetries:       maxRetries(cfg.MaxRetries),
		logger:           logger,
		breaker:          resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled:   breakerCfg.Enabled,
	}
}

func (c *Client) FetchStandings(ctx context.Context, competitionID string) (standings.Table, error) {
	competitionID = strings.TrimSpace(competitionID)
	pageURL, ok := c.standingsURLByID[competitionID]
	if !ok {
		return standings.Table{}, fmt.Errorf("%w: no standings url configured for competition=%s", usecase.ErrConfigurationMissing, competitionID)
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "uefa circuit breaker rejected request", "state", c.breaker.State())
			return standings.Table{}, fmt.Errorf("%w: standings page is temporarily unavailable", usecase.ErrSourceUnavailable)
		}
	}

	out, err, _ := c.flight.Do(competitionID, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, pageURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errUEFATransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return standings.Table{}, fmt.Errorf("%w: fetch standings competition=%s: %v", usecase.ErrSourceUnavailable, competitionID, err)
	}

	raw, ok := out.([]byte)
	if !ok {
		return standings.Table{}, fmt.Errorf("unexpected response payload type %T", out)
	}

	rows, err := parseStandingsHTML(raw)
	if err != nil {
		return standings.Table{}, fmt.Errorf("%w: parse standings competition=%s: %v", usecase.ErrSourceUnavailable, competitionID, err)
	}

	return standings.NewTable(competitionID, rows), nil
}

func (c *Client) executeRequest(ctx context.Context, pageURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", defaultUserAgent)
		req.Header.Set("Accept", "text/html")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(errUEFATransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errUEFATransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errUEFATransient, "page status=%d", resp.StatusCode)
			default:
				return nil, fmt.Errorf("page status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("page request failed")
	}
	c.logger.WarnContext(ctx, "uefa request failed", "url", pageURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func maxRetries(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
