package jolpica

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matrixrace/matrixraceapp/internal/platform/logging"
	"github.com/matrixrace/matrixraceapp/internal/platform/resilience"
	"github.com/matrixrace/matrixraceapp/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.jolpi.ca/ergast/f1"
	defaultPageSize = 100
	maxPages        = 10
)

var errJolpicaTransient = crerr.New("jolpica transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches race calendars and classifications from the Jolpica
// (Ergast-compatible) Formula 1 API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
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
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := cfg.CircuitBreaker.Normalize()

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        breakerCfg.NewBreaker(),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// SeasonSchedule returns the full race calendar for one season.
func (c *Client) SeasonSchedule(ctx context.Context, season int) ([]usecase.FeedEvent, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	races, err := c.fetchRaces(ctx, fmt.Sprintf("/%d/races/", season))
	if err != nil {
		return nil, fmt.Errorf("fetch season schedule season=%d: %w", season, err)
	}

	events := make([]usecase.FeedEvent, 0, len(races))
	for _, race := range races {
		entry, err := mapRaceToFeedEvent(race)
		if err != nil {
			c.logger.WarnContext(ctx, "skip malformed calendar entry",
				"season", season,
				"round", race.Round,
				"error", err,
			)
			continue
		}
		events = append(events, entry)
	}

	return events, nil
}

// RaceClassification returns the final classification for one round. An
// empty slice means the round has no published classification yet.
func (c *Client) RaceClassification(ctx context.Context, season, round int) ([]usecase.FeedResultRow, error) {
	if season <= 0 || round <= 0 {
		return nil, fmt.Errorf("season and round must be greater than zero")
	}

	races, err := c.fetchRaces(ctx, fmt.Sprintf("/%d/%d/results/", season, round))
	if err != nil {
		return nil, fmt.Errorf("fetch classification season=%d round=%d: %w", season, round, err)
	}

	rows := make([]usecase.FeedResultRow, 0, 24)
	for _, race := range races {
		for _, item := range race.Results {
			row, err := mapResultToFeedRow(item)
			if err != nil {
				c.logger.WarnContext(ctx, "skip malformed classification row",
					"season", season,
					"round", round,
					"error", err,
				)
				continue
			}
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// fetchRaces follows the provider's offset pagination until the reported
// total is collected.
func (c *Client) fetchRaces(ctx context.Context, path string) ([]raceItem, error) {
	races := make([]raceItem, 0, defaultPageSize)
	offset := 0

	for page := 0; page < maxPages; page++ {
		query := map[string]string{
			"limit":  strconv.Itoa(defaultPageSize),
			"offset": strconv.Itoa(offset),
		}

		var envelope mrDataEnvelope
		if err := c.doJSON(ctx, path, query, &envelope); err != nil {
			return nil, err
		}

		races = append(races, envelope.MRData.RaceTable.Races...)

		total, err := strconv.Atoi(strings.TrimSpace(envelope.MRData.Total))
		if err != nil {
			return nil, fmt.Errorf("parse response total %q: %w", envelope.MRData.Total, err)
		}
		offset += defaultPageSize
		if offset >= total {
			break
		}
	}

	return races, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "jolpica circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isJolpicaCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errJolpicaTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errJolpicaTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errJolpicaTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
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
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "jolpica request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isJolpicaCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errJolpicaTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > maxLen {
		return body[:maxLen] + "..."
	}
	return body
}

func mapRaceToFeedEvent(race raceItem) (usecase.FeedEvent, error) {
	season, err := strconv.Atoi(strings.TrimSpace(race.Season))
	if err != nil {
		return usecase.FeedEvent{}, fmt.Errorf("parse season %q: %w", race.Season, err)
	}
	round, err := strconv.Atoi(strings.TrimSpace(race.Round))
	if err != nil {
		return usecase.FeedEvent{}, fmt.Errorf("parse round %q: %w", race.Round, err)
	}

	raceStart, err := parseProviderTime(race.Date, race.Time)
	if err != nil {
		return usecase.FeedEvent{}, fmt.Errorf("parse race start: %w", err)
	}
	if raceStart == nil {
		return usecase.FeedEvent{}, fmt.Errorf("race start is missing")
	}

	tier1Start, err := parseSessionTime(race.FirstPractice)
	if err != nil {
		return usecase.FeedEvent{}, fmt.Errorf("parse first practice start: %w", err)
	}
	tier2Start, err := parseSessionTime(race.Qualifying)
	if err != nil {
		return usecase.FeedEvent{}, fmt.Errorf("parse qualifying start: %w", err)
	}

	return usecase.FeedEvent{
		Season:      season,
		Round:       round,
		Name:        strings.TrimSpace(race.RaceName),
		Location:    strings.TrimSpace(race.Circuit.Location.Locality),
		Country:     strings.TrimSpace(race.Circuit.Location.Country),
		CircuitName: strings.TrimSpace(race.Circuit.CircuitName),
		Tier1Start:  tier1Start,
		Tier2Start:  tier2Start,
		RaceStart:   *raceStart,
	}, nil
}

func mapResultToFeedRow(item resultItem) (usecase.FeedResultRow, error) {
	position, err := strconv.Atoi(strings.TrimSpace(item.Position))
	if err != nil {
		return usecase.FeedResultRow{}, fmt.Errorf("parse position %q: %w", item.Position, err)
	}

	code := strings.TrimSpace(item.Driver.Code)
	if code == "" {
		return usecase.FeedResultRow{}, fmt.Errorf("driver code is missing")
	}

	number := 0
	if raw := strings.TrimSpace(item.Driver.PermanentNumber); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			number = parsed
		}
	}

	return usecase.FeedResultRow{
		CompetitorCode: code,
		FirstName:      strings.TrimSpace(item.Driver.GivenName),
		LastName:       strings.TrimSpace(item.Driver.FamilyName),
		Number:         number,
		CountryCode:    strings.TrimSpace(item.Driver.Nationality),
		Position:       position,
	}, nil
}

func parseSessionTime(session *sessionTime) (*time.Time, error) {
	if session == nil {
		return nil, nil
	}
	return parseProviderTime(session.Date, session.Time)
}

// parseProviderTime combines the provider's split date and time fields.
// Sessions without a published start time resolve to midnight UTC.
func parseProviderTime(date, clock string) (*time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, nil
	}

	clock = strings.TrimSpace(clock)
	if clock == "" {
		clock = "00:00:00Z"
	}

	parsed, err := time.Parse(time.RFC3339, date+"T"+clock)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", date+"T"+clock, err)
	}

	parsed = parsed.UTC()
	return &parsed, nil
}
