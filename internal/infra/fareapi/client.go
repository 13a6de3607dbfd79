package fareapi

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"fare-dashboard/internal/config"
)

const (
	loginPath  = "/api/v1/auth/login"
	queryPath  = "/api/v1/updater/getFareData"
	updatePath = "/api/v1/updater/updateFare"
)

// Client talks to the external fare-update API. It owns its own rate limiter
// so that a burst of dashboard users cannot flood the upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
	tracer     trace.Tracer
	requests   metric.Int64Counter
}

func NewClient(cfg config.FareAPIConfig, logger *slog.Logger) (*Client, error) {
	requests, err := otel.Meter("fare-dashboard/fareapi").Int64Counter(
		"fareapi.requests",
		metric.WithDescription("Requests issued to the fare-update API"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create request counter")
	}

	burst := cfg.RateLimit.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.ADDR(), "/"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), burst),
		logger:     logger,
		tracer:     otel.Tracer("fare-dashboard/fareapi"),
		requests:   requests,
	}, nil
}

// Login authenticates against the auth endpoint. A rejected login (non-200
// status field or empty token) returns (nil, nil); errors are transport-level
// failures only.
func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	status, body, err := c.do(ctx, http.MethodPost, loginPath, encodeLoginRequest(username, password))
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, nil
	}

	resp, err := decodeLoginResponse(body)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK || resp.Token == "" {
		return nil, nil
	}

	return &Credentials{
		Username: resp.Username,
		Token:    resp.Token,
		UserID:   resp.UserID,
	}, nil
}

// GetFareData runs a fare search. A non-2xx reply becomes a *StatusError
// carrying the server's message when one was sent.
func (c *Client) GetFareData(ctx context.Context, req QueryRequest) ([]FareRecord, error) {
	status, body, err := c.do(ctx, http.MethodPost, queryPath, encodeQueryRequest(req))
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &StatusError{Code: status, Message: decodeErrorMessage(body)}
	}
	return decodeFareRecords(body)
}

// UpdateFare submits one batched fare update and returns the server's plain
// confirmation text.
func (c *Client) UpdateFare(ctx context.Context, req UpdateRequest) (string, error) {
	status, body, err := c.do(ctx, http.MethodPut, updatePath, encodeUpdateRequest(req))
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", &StatusError{Code: status, Message: decodeErrorMessage(body)}
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, errors.Wrap(err, "rate limiting")
	}

	ctx, span := c.tracer.Start(ctx, "fareapi"+path)
	defer span.End()

	requestID := uuid.New().String()
	span.SetAttributes(attribute.String("request_id", requestID))

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("path", path),
		attribute.Bool("ok", err == nil),
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.logger.Error("fare API request failed",
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Any("error", err))
		return 0, nil, errors.Wrap(err, "fare API request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return 0, nil, errors.Wrap(err, "read response body")
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("fare API request completed",
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode))

	return resp.StatusCode, body, nil
}
