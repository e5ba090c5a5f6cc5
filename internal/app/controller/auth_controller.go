package controller

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/metrics"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
)

type AuthController struct {
	authService  service.AuthService
	secureCookie bool
}

func NewAuthController(authService service.AuthService, secureCookie bool) *AuthController {
	return &AuthController{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login POST /api/admin/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if isJSON(c) {
		if !bindJSON(c, &req) {
			return
		}
	} else {
		req.Username = formString(c, "username")
		req.Password = c.PostForm("password")
	}

	token, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		outcome := "error"
		if errors.Is(err, service.ErrInvalidCredentials) {
			outcome = "failure"
		}
		metrics.RecordLogin(outcome)

		// Failed form logins go back to the login page, not to the gated target
		if target := redirectTarget(c); target != "" {
			log.Warn("Admin login rejected", map[string]interface{}{
				"username": req.Username,
			})
			c.Redirect(http.StatusSeeOther, middleware.LoginPage+"?error="+url.QueryEscape(classify(err, "login").message)+"&next="+url.QueryEscape(target))
			return
		}
		respondError(c, err, "login")
		return
	}

	metrics.RecordLogin("success")
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(ctrl.authService.SessionExpiry().Seconds()), "/", "", ctrl.secureCookie, true)

	log.Info("Admin session started", map[string]interface{}{
		"username": req.Username,
	})
	respondOK(c, http.StatusOK, gin.H{"username": req.Username})
}

// Logout POST /api/admin/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", ctrl.secureCookie, true)
	respondOK(c, http.StatusOK, gin.H{"loggedOut": true})
}
