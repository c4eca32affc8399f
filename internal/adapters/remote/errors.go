package remote

import (
	"errors"
	"fmt"
)

// Messages reported by the backend client when the server gives none.
const (
	msgSessionExpired = "Session expirée, veuillez vous reconnecter"
	msgServerError    = "Erreur serveur"
)

// Sentinel errors.
var (
	// ErrAuthExpired is matched by the error of any call answered with 401.
	ErrAuthExpired = errors.New("remote: authentication expired")
	// ErrInvalidResponse reports a successful status with an undecodable body.
	ErrInvalidResponse = errors.New("remote: invalid response")
	// ErrNotLoggedIn is returned by Login when the backend issued no token.
	ErrNotLoggedIn = errors.New("remote: no token issued")
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote: %d: %s", e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrAuthExpired) match 401 answers.
func (e *Error) Unwrap() error {
	if e.Status == 401 {
		return ErrAuthExpired
	}
	return nil
}
