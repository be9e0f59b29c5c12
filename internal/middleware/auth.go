package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/internal/session"
	"github.com/suteetoe/marketplace/pkg/config"
	"github.com/suteetoe/marketplace/pkg/jwtutil"
	"github.com/suteetoe/marketplace/pkg/logger"
	"github.com/suteetoe/marketplace/pkg/metrics"
	"go.uber.org/zap"
)

const identityKey = "identity"

// Sessions issues, loads and revokes the session cookie. The cookie holds a
// signed JWT carrying the user's id, username, full name and role.
type Sessions struct {
	jwt     *jwtutil.JWTUtil
	revoker session.Revoker
	config  config.SessionConfig
	metrics *metrics.Marketplace
	now     func() time.Time
}

func NewSessions(jwt *jwtutil.JWTUtil, revoker session.Revoker, cfg config.SessionConfig, m *metrics.Marketplace) *Sessions {
	return &Sessions{
		jwt:     jwt,
		revoker: revoker,
		config:  cfg,
		metrics: m,
		now:     time.Now,
	}
}

// Issue starts a session for user
func (s *Sessions) Issue(c echo.Context, user *model.User) error {
	token, claims, err := s.jwt.GenerateToken(user.ID, user.Username, user.FullName, string(user.Role))
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     s.config.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		HttpOnly: true,
		Secure:   s.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear revokes the caller's token for the rest of its lifetime and drops the cookie
func (s *Sessions) Clear(c echo.Context, id auth.Identity) error {
	c.SetCookie(&http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.Secure,
	})
	if id.TokenID == "" {
		return nil
	}
	return s.revoker.Revoke(c.Request().Context(), id.TokenID, id.ExpiresAt.Sub(s.now()))
}

// Middleware loads the session cookie into the request. Requests without a
// valid session continue as auth.Anonymous.
func (s *Sessions) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			cookie, err := c.Cookie(s.config.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := s.jwt.ValidateToken(cookie.Value)
			if err != nil {
				log.Debug("Invalid or expired session token", zap.Error(err))
				s.metrics.RecordAuthError("invalid_token")
				return next(c)
			}

			revoked, err := s.revoker.IsRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				log.Warn("Failed to check session revocation", zap.Error(err))
				s.metrics.RecordAuthError("revocation_check_failed")
				return next(c)
			}
			if revoked {
				s.metrics.RecordAuthError("revoked_token")
				return next(c)
			}

			id := auth.FromClaims(claims)
			c.Set(identityKey, id)
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
			c.Set("logger", log.With(zap.Uint("user_id", id.UserID)))
			return next(c)
		}
	}
}

// CurrentIdentity returns the caller loaded by Sessions.Middleware
func CurrentIdentity(c echo.Context) auth.Identity {
	if id, ok := c.Get(identityKey).(auth.Identity); ok {
		return id
	}
	return auth.Anonymous
}

// RequireLogin sends anonymous callers to the login page
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CurrentIdentity(c).IsAuthenticated() {
				SetFlash(c, "danger", "Please login first")
				return c.Redirect(http.StatusFound, "/login")
			}
			return next(c)
		}
	}
}

// RequireRole admits callers holding any of roles. Admins pass every role check.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := CurrentIdentity(c)
			if !id.IsAuthenticated() {
				SetFlash(c, "danger", "Please login first")
				return c.Redirect(http.StatusFound, "/login")
			}
			for _, role := range roles {
				if id.HasRole(role) {
					return next(c)
				}
			}
			logger.FromEcho(c).Warn("Access denied",
				zap.String("role", string(id.Role)),
				zap.String("path", c.Path()))
			SetFlash(c, "danger", "Access denied")
			return c.Redirect(http.StatusFound, "/")
		}
	}
}
