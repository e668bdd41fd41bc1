package controllers

import (
	"net/http"

	"github.com/samcharmz/charmz-backend/api/middleware"
	"github.com/samcharmz/charmz-backend/api/responses"
	"github.com/samcharmz/charmz-backend/api/validators"
	"github.com/samcharmz/charmz-backend/internal/auth"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
)

type loginPayload struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type signupPayload struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Age       int    `json:"age" validate:"omitempty,min=13,max=120"`
}

type recoverPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthLogin signs the shopper in. The flow is mocked: any credentials
// succeed after the configured delay.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state, err := svc.Login(ctx, middleware.SessionIDFromContext(ctx), auth.LoginInput{
			Email:     body.Email,
			Password:  body.Password,
			FirstName: validators.SanitizeString(body.FirstName, 100),
			LastName:  validators.SanitizeString(body.LastName, 100),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statePayload(state))
	}
}

// AuthSignup registers the shopper. Mocked like login, with the profile
// fields carried through.
func AuthSignup(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body signupPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state, err := svc.Signup(ctx, middleware.SessionIDFromContext(ctx), auth.SignupInput{
			Email:     body.Email,
			Password:  body.Password,
			FirstName: validators.SanitizeString(body.FirstName, 100),
			LastName:  validators.SanitizeString(body.LastName, 100),
			Age:       body.Age,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, statePayload(state))
	}
}

// AuthRecover acknowledges a password-recovery request. Always succeeds.
func AuthRecover(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body recoverPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		message, err := svc.Recover(ctx, body.Email)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": message})
	}
}

// AuthLogout clears the profile. The session and its cart survive.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		state, err := svc.Logout(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statePayload(state))
	}
}
