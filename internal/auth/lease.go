package auth

import "time"

// Lease — access token и абсолютное время его истечения.
//
// Lease неизменяем: при обновлении TokenCache заменяет его целиком.
type Lease struct {
	Token     string
	ExpiresAt time.Time
}

// Valid возвращает true, если lease можно использовать в момент now.
func (l Lease) Valid(now time.Time) bool {
	return l.Token != "" && now.Before(l.ExpiresAt)
}
