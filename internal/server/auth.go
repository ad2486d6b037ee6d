package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"

	"github.com/bjarke-xyz/startup-dashboard/internal/service"
)

var idTokenCookieKey = "ID_TOKEN"
var refreshTokenCookieKey = "REFRESH_TOKEN"

var (
	IdTokenCtxKey      = &contextKey{"IdToken"}
	RefreshTokenCtxKey = &contextKey{"RefreshToken"}
)

// IDTokenVerifier is satisfied by the Firebase auth client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthRestClient signs users in and refreshes their ID tokens.
type AuthRestClient interface {
	SignInWithEmailAndPassword(ctx context.Context, email string, password string) (service.IdTokenResponse, error)
	RefreshIdToken(ctx context.Context, refreshToken string) (service.RefreshTokenResponse, error)
}

func (s *server) authEnabled() bool {
	return s.verifier != nil && s.authClient != nil
}

func loginRedirect(w http.ResponseWriter, r *http.Request, errMsg string) {
	target := "/login"
	if errMsg != "" {
		target += "?error=" + url.QueryEscape(errMsg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func setTokenCookies(w http.ResponseWriter, idToken string, refreshToken string) {
	// 5 days
	cookieExpires := time.Now().Add(5 * 24 * time.Hour)

	http.SetCookie(w, &http.Cookie{
		Name:     idTokenCookieKey,
		Value:    idToken,
		Path:     "/",
		Expires:  cookieExpires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookieKey,
		Value:    refreshToken,
		Path:     "/",
		Expires:  cookieExpires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   idTokenCookieKey,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.SetCookie(w, &http.Cookie{
		Name:   refreshTokenCookieKey,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.authEnabled() {
		http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
		return
	}
	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		loginRedirect(w, r, "email and password are required")
		return
	}

	resp, err := s.authClient.SignInWithEmailAndPassword(r.Context(), email, password)
	if err != nil {
		var apiErr *service.ErrorResponse
		if errors.As(err, &apiErr) {
			loginRedirect(w, r, apiErr.Message)
			return
		}
		s.logger.Error("failed to login", "error", err)
		loginRedirect(w, r, "internal error")
		return
	}

	setTokenCookies(w, resp.IdToken, resp.RefreshToken)
	s.logger.Info("user logged in", "email", resp.Email)
	http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
}

// firebaseJwtVerifier guards the dashboard. An expired ID token is replaced
// using the refresh token cookie.
func (s *server) firebaseJwtVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authEnabled() {
			next.ServeHTTP(w, r)
			return
		}
		idTokenCookie, ok := lo.Find(r.Cookies(), func(c *http.Cookie) bool { return c.Name == idTokenCookieKey })
		if !ok || len(idTokenCookie.Value) == 0 {
			loginRedirect(w, r, "")
			return
		}
		refreshTokenCookie, _ := lo.Find(r.Cookies(), func(c *http.Cookie) bool { return c.Name == refreshTokenCookieKey })
		refreshToken := ""
		if refreshTokenCookie != nil {
			refreshToken = refreshTokenCookie.Value
		}

		ctx := r.Context()
		token, err := s.verifier.VerifyIDToken(ctx, idTokenCookie.Value)
		if err != nil && refreshToken != "" {
			token, refreshToken, err = s.refresh(ctx, w, refreshToken)
		}
		if err != nil {
			s.logger.Info("rejected dashboard session", "error", err)
			loginRedirect(w, r, "session expired, please log in again")
			return
		}
		ctx = NewContext(ctx, token, refreshToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) refresh(ctx context.Context, w http.ResponseWriter, refreshToken string) (*auth.Token, string, error) {
	resp, err := s.authClient.RefreshIdToken(ctx, refreshToken)
	if err != nil {
		return nil, "", err
	}
	token, err := s.verifier.VerifyIDToken(ctx, resp.IdToken)
	if err != nil {
		return nil, "", err
	}
	setTokenCookies(w, resp.IdToken, resp.RefreshToken)
	return token, resp.RefreshToken, nil
}

type contextKey struct {
	name string
}

func NewContext(ctx context.Context, t *auth.Token, refreshToken string) context.Context {
	ctx = context.WithValue(ctx, IdTokenCtxKey, t)
	ctx = context.WithValue(ctx, RefreshTokenCtxKey, refreshToken)
	return ctx
}

func TokenFromContext(ctx context.Context) (*auth.Token, string) {
	idToken, _ := ctx.Value(IdTokenCtxKey).(*auth.Token)
	refreshToken, _ := ctx.Value(RefreshTokenCtxKey).(string)
	return idToken, refreshToken
}

// apiKeyVerifier requires the Authorization header to match the configured
// bcrypt hash. Without a configured hash the API is open.
func (s *server) apiKeyVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKeyHash == "" {
			next.ServeHTTP(w, r)
			return
		}
		authorizationHeader := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if authorizationHeader == "" {
			s.apiError(w, r, http.StatusUnauthorized, "missing api key")
			return
		}
		err := bcrypt.CompareHashAndPassword([]byte(s.apiKeyHash), []byte(authorizationHeader))
		if err != nil {
			s.apiError(w, r, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
