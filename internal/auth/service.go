// Package auth implements the storefront's mocked authentication flows.
// Login, signup, and recovery always succeed after an artificial delay; the
// submitted password is hashed into the session profile but never verified
// against anything.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/samcharmz/charmz-backend/internal/shop"
	"github.com/samcharmz/charmz-backend/pkg/config"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
	"github.com/samcharmz/charmz-backend/pkg/security"
)

// Demo profile defaults applied when a plain login carries no name.
const (
	demoFirstName = "Sam"
	demoLastName  = "Charmz"
)

// RecoveryMessage is returned by every recovery request.
const RecoveryMessage = "Recovery email sent! Check your inbox."

// LoginInput is the credential payload. Names are optional on plain login.
type LoginInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// SignupInput is the registration payload.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Age       int
}

// Service exposes the mocked auth flows against a shopper session.
type Service interface {
	Login(ctx context.Context, sessionID string, input LoginInput) (shop.State, error)
	Signup(ctx context.Context, sessionID string, input SignupInput) (shop.State, error)
	Recover(ctx context.Context, email string) (string, error)
	Logout(ctx context.Context, sessionID string) (shop.State, error)
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	Shop     shop.Service
	Password config.PasswordConfig
	Delay    time.Duration
	Logger   *logger.Logger
}

type service struct {
	shop     shop.Service
	password config.PasswordConfig
	delay    time.Duration
	logg     *logger.Logger
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Shop == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop service is required")
	}
	return &service{
		shop:     params.Shop,
		password: params.Password,
		delay:    params.Delay,
		logg:     params.Logger,
	}, nil
}

// Login always succeeds after the mock delay. A login without a name gets the
// demo profile defaults.
func (s *service) Login(ctx context.Context, sessionID string, input LoginInput) (shop.State, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return shop.State{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := s.wait(ctx); err != nil {
		return shop.State{}, err
	}

	user, err := s.buildUser(email, input.Password, input.FirstName, input.LastName, 0)
	if err != nil {
		return shop.State{}, err
	}
	return s.shop.Dispatch(ctx, sessionID, shop.Login{User: user})
}

// Signup mirrors Login with the registration fields carried through.
func (s *service) Signup(ctx context.Context, sessionID string, input SignupInput) (shop.State, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return shop.State{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := s.wait(ctx); err != nil {
		return shop.State{}, err
	}

	user, err := s.buildUser(email, input.Password, input.FirstName, input.LastName, input.Age)
	if err != nil {
		return shop.State{}, err
	}
	return s.shop.Dispatch(ctx, sessionID, shop.Login{User: user})
}

// Recover reports success for any address after the mock delay. No mail is
// sent anywhere.
func (s *service) Recover(ctx context.Context, email string) (string, error) {
	if normalizeEmail(email) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	return RecoveryMessage, nil
}

// Logout clears the profile. The session and its cart survive.
func (s *service) Logout(ctx context.Context, sessionID string) (shop.State, error) {
	return s.shop.Dispatch(ctx, sessionID, shop.Logout{})
}

func (s *service) buildUser(email, password, firstName, lastName string, age int) (shop.User, error) {
	user := shop.User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     email,
		Age:       age,
	}
	if user.FirstName == "" {
		user.FirstName = demoFirstName
	}
	if user.LastName == "" {
		user.LastName = demoLastName
	}
	if password != "" {
		hash, err := security.HashPassword(password, s.password)
		if err != nil {
			return shop.User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
		}
		user.PasswordHash = hash
	}
	return user, nil
}

// wait blocks for the configured mock latency, aborting when the caller goes
// away so a cancelled request never writes a late login.
func (s *service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "auth request cancelled")
	case <-timer.C:
		return nil
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
