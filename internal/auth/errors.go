package auth

import (
	"errors"
	"fmt"
)

// Ошибки аутентификации.
var (
	// ErrAuthentication — не удалось получить access token.
	ErrAuthentication = errors.New("authentication failed")

	// ErrEmptyToken — identity-сервис вернул пустой access token.
	ErrEmptyToken = errors.New("empty access token")
)

// AuthenticationError — ошибка обмена client credentials.
//
// Detail содержит описание ошибки от identity-сервиса
// (error / error_description) либо текст транспортной ошибки.
type AuthenticationError struct {
	Detail string
	Err    error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("something went wrong while requesting the access token: %s", e.Detail)
}

// Unwrap возвращает исходную ошибку.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is позволяет проверять ошибку через errors.Is(err, ErrAuthentication).
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}
