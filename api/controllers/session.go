package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/devshop"
	pkgAuth "github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/shopapi"
)

// Me returns the user bound to the session cookie.
func Me(shop Shop, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := shop.User(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				err = pkgerrors.Wrap(pkgerrors.CodeNotAuthenticated, err, "Not logged in")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, userFromModel(user))
	}
}

// Login checks credentials and sets the session cookie.
func Login(shop Shop, sessions Sessions, cfg config.DevAPIConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body shopapi.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := shop.Authenticate(body.Username, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := signIn(w, r, sessions, cfg, user); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, userFromModel(user))
	}
}

// Logout revokes the session when the cookie is still valid and always clears it.
func Logout(sessions Sessions, cfg config.DevAPIConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(pkgAuth.CookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
			if claims, err := pkgAuth.ParseSessionToken(cfg, cookie.Value); err == nil && claims.ID != "" {
				if err := sessions.Revoke(r.Context(), claims.ID); err != nil && logg != nil {
					logg.Error(r.Context(), "session.revoke_failed", err)
				}
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     pkgAuth.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		responses.WriteNoContent(w)
	}
}

// Register creates an account and signs the new user in.
func Register(shop Shop, sessions Sessions, cfg config.DevAPIConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body shopapi.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := shop.CreateUser(devshop.NewUser{
			Username: strings.TrimSpace(body.Username),
			Email:    strings.TrimSpace(body.Email),
			Password: body.Password,
			Address:  strings.TrimSpace(body.Address),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := signIn(w, r, sessions, cfg, user); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, userFromModel(user))
	}
}

// UpdateUser applies a partial profile update. Users may only edit their own account.
func UpdateUser(shop Shop, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if id != middleware.UserIDFromContext(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "Cannot update another user"))
			return
		}

		var body shopapi.UpdateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := shop.UpdateUser(id, devshop.UserPatch{
			Username: body.Username,
			Email:    body.Email,
			Address:  body.Address,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, userFromModel(user))
	}
}

func signIn(w http.ResponseWriter, r *http.Request, sessions Sessions, cfg config.DevAPIConfig, user devshop.User) error {
	accessID := session.NewAccessID()
	token, err := pkgAuth.MintSessionToken(cfg, time.Now(), pkgAuth.SessionPayload{
		UserID:   user.ID,
		Username: user.Username,
		JTI:      accessID,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue session")
	}
	if err := sessions.Open(r.Context(), accessID, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open session")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     pkgAuth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
