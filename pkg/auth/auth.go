// Package auth checks sign-in credentials against a single configured
// account. Passwords are compared through bcrypt.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-sendmoney/pkg/logging"
)

const (
	// MinUsernameLength is the shortest accepted username, in characters.
	MinUsernameLength = 3
	// MinPasswordLength is the shortest accepted password, in characters.
	MinPasswordLength = 6

	DefaultUsername = "testuser"
	DefaultPassword = "password123"
)

var (
	ErrInvalidUsername = errors.New("auth: invalid username")
	ErrInvalidPassword = errors.New("auth: invalid password")
	ErrUserNotFound    = errors.New("auth: user not found")
)

// MessageKey returns the translation key describing err, or "" when err is
// not an auth error.
func MessageKey(err error) string {
	switch {
	case errors.Is(err, ErrInvalidUsername):
		return "auth.invalid_username"
	case errors.Is(err, ErrInvalidPassword):
		return "auth.invalid_password"
	case errors.Is(err, ErrUserNotFound):
		return "auth.user_not_found"
	default:
		return ""
	}
}

// Authenticator verifies a username and password.
type Authenticator interface {
	Authenticate(username, password string) (User, error)
}

// User is the signed-in account.
type User struct {
	Username string
}

// Option configures a Checker.
type Option func(*Checker)

// WithCredentials replaces the default account. The password is hashed once
// at construction.
func WithCredentials(username, password string) Option {
	return func(c *Checker) {
		c.username = username
		c.password = password
		c.hash = nil
	}
}

// WithPasswordHash uses an existing bcrypt hash for the account password.
func WithPasswordHash(username string, hash []byte) Option {
	return func(c *Checker) {
		c.username = username
		c.password = ""
		c.hash = append([]byte(nil), hash...)
	}
}

// WithCost sets the bcrypt cost used when hashing a plain password.
func WithCost(cost int) Option {
	return func(c *Checker) {
		c.cost = cost
	}
}

// WithLogger sets the logger for sign-in attempts.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Checker authenticates against one account. Usernames compare
// case-insensitively.
type Checker struct {
	username string
	password string
	hash     []byte
	cost     int
	logger   logrus.FieldLogger
}

var _ Authenticator = (*Checker)(nil)

// New builds a Checker for the default account unless options say
// otherwise.
func New(options ...Option) (*Checker, error) {
	c := &Checker{
		username: DefaultUsername,
		password: DefaultPassword,
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	c.logger = c.logger.WithField("component", "auth")

	if strings.TrimSpace(c.username) == "" {
		return nil, errors.New("auth: username is required")
	}
	if c.hash == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.password), c.cost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash password: %w", err)
		}
		c.hash = hash
		c.password = ""
	}
	if _, err := bcrypt.Cost(c.hash); err != nil {
		return nil, fmt.Errorf("auth: password hash: %w", err)
	}
	return c, nil
}

// Validate applies the input rules without checking the account.
func Validate(username, password string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return ErrInvalidUsername
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}

// Authenticate checks the input rules, then the account.
func (c *Checker) Authenticate(username, password string) (User, error) {
	if err := Validate(username, password); err != nil {
		c.logger.WithError(err).Warn("sign in rejected")
		return User{}, err
	}
	if !strings.EqualFold(username, c.username) {
		c.logger.WithField("username", username).Warn("authentication failed")
		return User{}, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(password)); err != nil {
		c.logger.WithField("username", username).Warn("authentication failed")
		return User{}, ErrUserNotFound
	}
	c.logger.WithField("username", username).Info("signed in")
	return User{Username: c.username}, nil
}
