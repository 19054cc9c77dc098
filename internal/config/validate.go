package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shaiso/Paysweep/internal/domain"
	"github.com/shaiso/Paysweep/internal/schedule"
)

// Validate проверяет конфигурацию и возвращает все найденные ошибки разом.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL != "" {
		if err := checkAbsolute(c.API.BaseURL); err != nil {
			errs = append(errs, fmt.Errorf("api.base_url: %w", err))
		}
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}

	if c.Identity.Authority == "" {
		errs = append(errs, errors.New("identity.authority is required"))
	} else if err := checkAbsolute(c.Identity.Authority); err != nil {
		errs = append(errs, fmt.Errorf("identity.authority: %w", err))
	}
	if c.Identity.ClientID == "" {
		errs = append(errs, errors.New("identity.client_id is required"))
	}
	if c.Identity.ClientSecret == "" {
		errs = append(errs, errors.New("identity.client_secret is required"))
	}

	if len(c.Operations) == 0 {
		errs = append(errs, errors.New("at least one operation is required"))
	}

	seen := make(map[string]struct{}, len(c.Operations))
	for i, op := range c.Operations {
		prefix := fmt.Sprintf("operations[%d]", i)
		if op.Name != "" {
			prefix = fmt.Sprintf("operation %q", op.Name)
		}

		for _, err := range c.validateOperation(op) {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}

		if op.Name == "" {
			continue
		}
		if _, dup := seen[op.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate name", prefix))
		}
		seen[op.Name] = struct{}{}
	}

	if c.Schedule.Cron != "" {
		if _, err := schedule.Parse(c.Schedule.Cron, c.Schedule.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("schedule: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c *Config) validateOperation(op OperationConfig) []error {
	var errs []error

	if op.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}

	switch domain.OperationKind(op.Kind) {
	case domain.OperationKindBatch:
		if op.ChunkSize < 1 || op.ChunkSize > MaxChunkSize {
			errs = append(errs, fmt.Errorf("chunk_size must be in [1, %d], got %d", MaxChunkSize, op.ChunkSize))
		}
		if op.FetchURL == "" {
			errs = append(errs, errors.New("fetch_url is required"))
		}
	case domain.OperationKindNotify:
	default:
		errs = append(errs, fmt.Errorf("unknown kind %q", op.Kind))
	}

	if op.ProcessURL == "" {
		errs = append(errs, errors.New("process_url is required"))
	}

	switch domain.Shape(op.Shape) {
	case domain.ShapeArray, domain.ShapeWrapped:
	default:
		errs = append(errs, fmt.Errorf("unknown shape %q", op.Shape))
	}

	if op.DaysAhead != 0 && !op.PointInTime {
		errs = append(errs, errors.New("days_ahead requires point_in_time"))
	}

	for _, raw := range []string{op.FetchURL, op.ProcessURL} {
		if raw == "" {
			continue
		}
		if _, err := c.resolve(raw); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// Specs возвращает включённые операции в порядке объявления
// с URL, разрешёнными относительно api.base_url.
func (c *Config) Specs() ([]domain.OperationSpec, error) {
	specs := make([]domain.OperationSpec, 0, len(c.Operations))
	for _, op := range c.Operations {
		if op.Disabled {
			continue
		}

		fetchURL, err := c.resolve(op.FetchURL)
		if err != nil {
			return nil, fmt.Errorf("operation %q: %w", op.Name, err)
		}
		processURL, err := c.resolve(op.ProcessURL)
		if err != nil {
			return nil, fmt.Errorf("operation %q: %w", op.Name, err)
		}

		specs = append(specs, domain.OperationSpec{
			Name:        op.Name,
			Kind:        domain.OperationKind(op.Kind),
			FetchURL:    fetchURL,
			ProcessURL:  processURL,
			ChunkSize:   op.ChunkSize,
			Shape:       domain.Shape(op.Shape),
			WrapField:   op.WrapField,
			PointInTime: op.PointInTime,
			DaysAhead:   op.DaysAhead,
		})
	}
	return specs, nil
}

// resolve превращает относительный URL операции в абсолютный.
// Хвостовой "/" отрезается: к URL потом дописываются "/<время>" и "/send".
func (c *Config) resolve(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}

	if !ref.IsAbs() {
		if c.API.BaseURL == "" {
			return "", fmt.Errorf("relative url %q requires api.base_url", raw)
		}
		base, err := url.Parse(strings.TrimRight(c.API.BaseURL, "/") + "/")
		if err != nil {
			return "", fmt.Errorf("invalid api.base_url: %w", err)
		}
		ref = base.ResolveReference(&url.URL{Path: strings.TrimLeft(ref.Path, "/"), RawQuery: ref.RawQuery})
	}

	return strings.TrimRight(ref.String(), "/"), nil
}

func checkAbsolute(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("expected http(s) url, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
