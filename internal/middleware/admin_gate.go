package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/errors"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"github.com/hengyuan-pack/giftbox-site/pkg/util"
)

const (
	SessionCookie = "admin_session"
	AdminUserKey  = "admin_user"

	LoginPage = "/admin/login"
	LoginAPI  = "/api/admin/login"
)

// SessionValidator resolves a session token to an admin username.
type SessionValidator interface {
	ValidateSession(token string) (string, error)
}

type AdminGateConfig struct {
	Development bool
	BasicUser   string
	BasicPass   string
	Sessions    SessionValidator
}

// AdminGate guards /admin and /api/admin. Other paths pass untouched so the
// gate can sit on the engine.
func AdminGate(cfg AdminGateConfig) gin.HandlerFunc {
	if cfg.Development {
		logger.Warn("Admin gate bypassed: ENVIRONMENT is development, every admin request is accepted as dev")
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !isAdminPath(path) || isLoginPath(path) {
			c.Next()
			return
		}

		if cfg.Development {
			c.Set(AdminUserKey, "dev")
			c.Next()
			return
		}

		if user, pass, ok := c.Request.BasicAuth(); ok && cfg.BasicUser != "" && cfg.BasicPass != "" {
			if util.ConstantTimeEqual(user, cfg.BasicUser) && util.ConstantTimeEqual(pass, cfg.BasicPass) {
				c.Set(AdminUserKey, user)
				c.Next()
				return
			}
		}

		if token, err := c.Cookie(SessionCookie); err == nil && token != "" && cfg.Sessions != nil {
			if username, err := cfg.Sessions.ValidateSession(token); err == nil {
				c.Set(AdminUserKey, username)
				c.Next()
				return
			}
		}

		GetLoggerFromContext(c).Warn("Admin access denied", map[string]interface{}{
			"path": path,
		})

		if strings.HasPrefix(path, "/api/") {
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Redirect(http.StatusFound, LoginPage+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// GetAdminUser returns the username the gate admitted.
func GetAdminUser(c *gin.Context) string {
	return c.GetString(AdminUserKey)
}

func isAdminPath(path string) bool {
	return hasSegmentPrefix(path, "/admin") || hasSegmentPrefix(path, "/api/admin")
}

func isLoginPath(path string) bool {
	return path == LoginPage || path == LoginAPI
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
