// Package controllers maps HTTP requests onto services and repositories
// and owns the translation of failures into the API's JSON error shapes.
package controllers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/nberchet/apothecary/app/models"
	"github.com/nberchet/apothecary/app/repositories"
	"github.com/nberchet/apothecary/app/services"
	"github.com/nberchet/apothecary/pkg/bind"
	"github.com/nberchet/apothecary/pkg/logger"
	"github.com/nberchet/apothecary/pkg/response"
)

const sessionMaxAge = 86400 // 24h, matches the token TTL

// AuthController serves /auth/register, /auth/login and /auth/logout.
type AuthController struct {
	service      *services.AuthService
	cookieName   string
	secureCookie bool
	maxBodyBytes int64
}

func NewAuthController(service *services.AuthService, cookieName string, secureCookie bool, maxBodyBytes int64) *AuthController {
	return &AuthController{
		service:      service,
		cookieName:   cookieName,
		secureCookie: secureCookie,
		maxBodyBytes: maxBodyBytes,
	}
}

// Register creates an account. Every field violation is reported, not
// just the first.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput

	errs, err := bind.JSON(r, &in, c.maxBodyBytes)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(w, fieldErrors(errs))
		return
	}

	err = c.service.Register(r.Context(), in)
	switch {
	case err == nil:
		response.Message(w, http.StatusCreated, "Utilisateur créé")
	case errors.Is(err, repositories.ErrDuplicateName):
		// The upstream contract maps duplicates to 500; 409 would say more.
		response.Err(w, http.StatusInternalServerError, "Erreur système")
	default:
		logger.WithCtx(r.Context()).Error("register failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "Erreur système")
	}
}

// Login verifies the credentials and installs the session cookie. A
// missing field, unknown user and wrong password all get the same 401.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput

	if _, err := bind.JSON(r, &in, c.maxBodyBytes); err != nil {
		response.Err(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if in.Name == "" || in.Password == "" {
		response.Err(w, http.StatusUnauthorized, "Identifiants invalides")
		return
	}

	token, err := c.service.Login(r.Context(), in)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrBadCredentials):
		response.Err(w, http.StatusUnauthorized, "Identifiants invalides")
		return
	default:
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "Erreur système")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   c.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	response.Message(w, http.StatusOK, "Connecté avec succès")
}

// Logout instructs the client to drop the cookie. The server keeps no
// session state, so this is the entire logout.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	response.Message(w, http.StatusOK, "Déconnecté")
}

// fieldErrors flattens the validation map into the wire shape, sorted by
// field name so responses are deterministic.
func fieldErrors(errs map[string]string) []response.FieldError {
	out := make([]response.FieldError, 0, len(errs))
	for field, msg := range errs {
		out = append(out, response.FieldError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
