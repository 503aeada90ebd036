package api

import (
	"net/http"

	"github.com/avdeyev/flightbook/internal/service/admin"
	"github.com/avdeyev/flightbook/internal/session"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin    admin.AdminUseCase
	sessions *session.Manager
}

type adminLoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func NewAdminHandler(adminSvc admin.AdminUseCase, sessions *session.Manager) *AdminHandler {
	return &AdminHandler{admin: adminSvc, sessions: sessions}
}

func (h *AdminHandler) Register(router *gin.Engine) {
	router.GET("/admin/login", h.loginForm)
	router.POST("/admin/login", h.login)

	authed := router.Group("/admin", RequireAdmin())
	authed.GET("/dashboard", h.dashboard)
	authed.GET("/logout", h.logout)
}

func (h *AdminHandler) loginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Submit admin username and password."})
}

func (h *AdminHandler) login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid admin login request."})
		return
	}

	if err := h.admin.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	if err := h.sessions.Issue(c.Request.Context(), c.Writer, session.Session{AdminUser: req.Username}, false); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "admin": req.Username})
}

func (h *AdminHandler) dashboard(c *gin.Context) {
	sess := currentSession(c)
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.admin.RecordAction(c.Request.Context(), sess.AdminUser, "Viewed dashboard", c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"admin": sess.AdminUser,
		"stats": stats,
	})
}

func (h *AdminHandler) logout(c *gin.Context) {
	sess := currentSession(c)
	h.admin.Logout(c.Request.Context(), sess.AdminUser, c.ClientIP())

	if err := h.sessions.Clear(c.Request.Context(), c.Writer, c.Request); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out"})
}
