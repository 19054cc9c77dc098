package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout — таймаут запроса по умолчанию.
// Обработка большого чанка на стороне API может занимать десятки минут.
const DefaultTimeout = time.Hour

// Заголовки корреляции.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderRunID     = "X-Run-ID"
)

// TokenSource возвращает действующий access token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Authorize возвращает копию запроса с заголовком Authorization: Bearer.
//
// Исходный запрос не изменяется.
func Authorize(ctx context.Context, req *http.Request, source TokenSource) (*http.Request, error) {
	if source == nil {
		return nil, ErrNoTokenSource
	}

	token, err := source.Token(ctx)
	if err != nil {
		return nil, err
	}

	authorized := req.Clone(req.Context())
	authorized.Header.Set("Authorization", "Bearer "+token)
	return authorized, nil
}

// Client — аутентифицирующий HTTP-клиент.
type Client struct {
	http   *http.Client
	tokens TokenSource
	runID  string
	logger *slog.Logger
}

// Config — конфигурация Client.
type Config struct {
	// Tokens — источник токенов (обязательно).
	Tokens TokenSource

	// Timeout — таймаут одного запроса (default: 1h).
	Timeout time.Duration

	// Transport — опционально, по умолчанию http.DefaultTransport.
	Transport http.RoundTripper

	// RunID — идентификатор прохода, уходит в заголовке X-Run-ID.
	RunID string

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: cfg.Transport,
		},
		tokens: cfg.Tokens,
		runID:  cfg.RunID,
		logger: logger,
	}
}

// Do авторизует запрос и выполняет его.
//
// Ошибки получения токена и транспортные ошибки возвращаются без изменений.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	authorized, err := Authorize(req.Context(), req, c.tokens)
	if err != nil {
		return nil, err
	}
	return c.exec(authorized)
}

// exec добавляет заголовки корреляции и отправляет уже авторизованный запрос.
func (c *Client) exec(req *http.Request) (*http.Response, error) {
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if c.runID != "" {
		req.Header.Set(HeaderRunID, c.runID)
	}
	return c.http.Do(req)
}

// Response — прочитанный ответ API.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// IsSuccess возвращает true для 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get выполняет GET и читает тело ответа.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.send(ctx, http.MethodGet, url, nil)
}

// Post выполняет POST с JSON-телом и читает тело ответа.
// nil body — запрос без тела.
func (c *Client) Post(ctx context.Context, url string, body []byte) (*Response, error) {
	return c.send(ctx, http.MethodPost, url, body)
}

// send создаёт запрос, выполняет его и читает ответ целиком.
func (c *Client) send(ctx context.Context, method, url string, body []byte) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("sending request", "method", method, "url", url, "body_bytes", len(body))

	// Ошибка получения токена не транспортная: она прерывает проход.
	authorized, err := Authorize(ctx, req, c.tokens)
	if err != nil {
		return nil, err
	}

	resp, err := c.exec(authorized)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       respBody,
	}, nil
}
