package session

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const tokenKey contextKey = "token"

// CookieName holds the anti-forgery token between requests; FieldName is
// the matching hidden form input.
const (
	CookieName = "calendar_token"
	FieldName  = "token"
)

type Options struct {
	Secure bool
}

// Middleware makes sure every visitor carries a token cookie and puts the
// token into the request context.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(CookieName); err == nil && validToken(c.Value) {
				token = c.Value
			} else {
				token = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), token)))
		})
	}
}

func validToken(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// Token returns the anti-forgery token of the request, or "".
func Token(ctx context.Context) string {
	if t, ok := ctx.Value(tokenKey).(string); ok {
		return t
	}
	return ""
}

// Verify reports whether the submitted form token matches the session token.
// The form must already be parsed.
func Verify(r *http.Request) bool {
	want := Token(r.Context())
	got := r.PostFormValue(FieldName)
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// RequireToken rejects unsafe requests whose form token does not match.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		if err := r.ParseForm(); err != nil || !Verify(r) {
			http.Error(w, "invalid or missing token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
