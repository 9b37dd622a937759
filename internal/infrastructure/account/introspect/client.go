package introspect

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/matrixrace/matrixraceapp/internal/domain/user"
	"github.com/matrixrace/matrixraceapp/internal/platform/logging"
	"github.com/matrixrace/matrixraceapp/internal/platform/resilience"
	"github.com/matrixrace/matrixraceapp/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

// ClientConfig configures the introspection client.
type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	IntrospectPath string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client resolves bearer tokens through the account service's
// introspection endpoint.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	breakerCfg := cfg.CircuitBreaker.Normalize()

	return &Client{
		httpClient:     httpClient,
		introspectURL:  buildURL(cfg.BaseURL, cfg.IntrospectPath),
		logger:         logger,
		breaker:        breakerCfg.NewBreaker(),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return user.Principal{}, fmt.Errorf("%w: account introspection circuit open: %v", usecase.ErrDependencyUnavailable, err)
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(introspectRequest{Token: token}); err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(buf.B))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.circuitEnabled {
			c.breaker.RecordFailure()
		}
		return user.Principal{}, fmt.Errorf("request token introspection: %w", err)
	}
	defer resp.Body.Close()

	if c.circuitEnabled {
		// A denied token still proves the account service is healthy.
		if resp.StatusCode >= http.StatusInternalServerError {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("read introspect response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "token introspection non-200",
			"status_code", resp.StatusCode,
		)
		return user.Principal{}, fmt.Errorf("token introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
