package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// TokenPath — путь token endpoint относительно authority.
	TokenPath = "/connect/token"

	// DefaultScope — scope, который запрашивает воркер.
	DefaultScope = "edo"

	defaultIdentityTimeout = 30 * time.Second
)

// ClientCredentialsConfig — параметры обмена client credentials.
type ClientCredentialsConfig struct {
	// Authority — базовый URL identity-сервиса.
	Authority string

	ClientID     string
	ClientSecret string

	// Scopes — по умолчанию ["edo"].
	Scopes []string

	// HTTPClient — клиент для identity-сервиса (опционально).
	HTTPClient *http.Client
}

// ClientCredentials — Exchanger поверх golang.org/x/oauth2/clientcredentials.
//
// Кэширование токена здесь не выполняется, каждый Exchange — запрос
// в identity-сервис. Кэшированием занимается TokenCache.
type ClientCredentials struct {
	cfg    clientcredentials.Config
	client *http.Client
}

// NewClientCredentials создаёт Exchanger.
func NewClientCredentials(cfg ClientCredentialsConfig) (*ClientCredentials, error) {
	tokenURL, err := TokenURL(cfg.Authority)
	if err != nil {
		return nil, err
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{DefaultScope}
	}

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: defaultIdentityTimeout}
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	client := *base
	client.Transport = acceptJSON{next: transport}

	return &ClientCredentials{
		cfg: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		client: &client,
	}, nil
}

// Exchange запрашивает новый access token.
func (c *ClientCredentials) Exchange(ctx context.Context) (string, time.Duration, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)

	tok, err := c.cfg.Token(ctx)
	if err != nil {
		return "", 0, &AuthenticationError{Detail: retrieveDetail(err), Err: err}
	}

	var lifetime time.Duration
	if !tok.Expiry.IsZero() {
		lifetime = time.Until(tok.Expiry)
	}

	return tok.AccessToken, lifetime, nil
}

// TokenURL возвращает адрес token endpoint для authority.
func TokenURL(authority string) (string, error) {
	if authority == "" {
		return "", fmt.Errorf("%w: authority is required", ErrAuthentication)
	}

	base, err := url.Parse(authority)
	if err != nil {
		return "", fmt.Errorf("parse authority %q: %w", authority, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("authority %q must be an absolute url", authority)
	}

	return base.ResolveReference(&url.URL{Path: TokenPath}).String(), nil
}

// retrieveDetail достаёт описание ошибки из ответа identity-сервиса.
func retrieveDetail(err error) string {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return err.Error()
	}

	parts := make([]string, 0, 2)
	if re.ErrorCode != "" {
		parts = append(parts, re.ErrorCode)
	}
	if re.ErrorDescription != "" {
		parts = append(parts, re.ErrorDescription)
	}
	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}

	status := 0
	if re.Response != nil {
		status = re.Response.StatusCode
	}
	return fmt.Sprintf("status %d: %s", status, truncate(string(re.Body), 200))
}

// acceptJSON добавляет Accept: application/json ко всем запросам в identity.
type acceptJSON struct {
	next http.RoundTripper
}

func (t acceptJSON) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	return t.next.RoundTrip(req)
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
