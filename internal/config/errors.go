package config

import "errors"

// Ошибки конфигурации.
var (
	// ErrInvalidConfig — конфигурация не прошла валидацию.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrConfigNotFound — файл конфигурации не найден.
	ErrConfigNotFound = errors.New("config file not found")
)
