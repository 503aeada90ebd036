package api

import (
	"net/http"

	"github.com/avdeyev/flightbook/internal/service/identity"
	"github.com/avdeyev/flightbook/internal/session"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	identity identity.IdentityUseCase
	sessions *session.Manager
}

func NewAuthHandler(identitySvc identity.IdentityUseCase, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{identity: identitySvc, sessions: sessions}
}

func (h *AuthHandler) Register(router *gin.Engine) {
	router.GET("/register", h.registerForm)
	router.POST("/register", h.register)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)
}

func (h *AuthHandler) registerForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Submit username, full_name, email, password, password2 (phone and passport optional)."})
}

func (h *AuthHandler) register(c *gin.Context) {
	var input identity.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration request."})
		return
	}

	user, err := h.identity.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.sessions.Issue(c.Request.Context(), c.Writer, session.Session{UserID: user.ID}, false); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. You are now logged in.",
		"user":    user,
	})
}

func (h *AuthHandler) loginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Submit email_or_username, password and optional remember flag."})
}

func (h *AuthHandler) login(c *gin.Context) {
	var input identity.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login request."})
		return
	}

	user, err := h.identity.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.sessions.Issue(c.Request.Context(), c.Writer, session.Session{UserID: user.ID}, input.Remember); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully.",
		"user":    user,
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	if err := h.sessions.Clear(c.Request.Context(), c.Writer, c.Request); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out."})
}
