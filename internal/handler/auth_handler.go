package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ishuri/school-console/internal/auth"
	appErrors "github.com/ishuri/school-console/pkg/errors"
	"github.com/ishuri/school-console/pkg/response"
)

// AuthHandler manages the stored backend session token.
type AuthHandler struct {
	store auth.TokenStore
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(store auth.TokenStore) *AuthHandler {
	return &AuthHandler{store: store}
}

// Session godoc
// @Summary Describe the current session
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	token, err := h.store.Get(c.Request.Context())
	if err == auth.ErrNoToken {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	session, err := auth.SessionInfo(token)
	if err != nil {
		// a token we cannot read is useless; drop it
		_ = h.store.Clear(c.Request.Context())
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if session.Expired(time.Now()) {
		_ = h.store.Clear(c.Request.Context())
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"subject":    session.Subject,
		"email":      session.Email,
		"role":       session.Role,
		"expires_at": session.ExpiresAt,
	}, nil)
}

// SetToken godoc
// @Summary Store a backend session token
// @Tags Auth
// @Accept json
// @Success 204
// @Router /session [put]
func (h *AuthHandler) SetToken(c *gin.Context) {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "a token is required"))
		return
	}
	if _, err := auth.SessionInfo(body.Token); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "the token is not a readable JWT"))
		return
	}
	if err := h.store.Set(c.Request.Context(), body.Token); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClearToken godoc
// @Summary Forget the stored session token
// @Tags Auth
// @Success 204
// @Router /session [delete]
func (h *AuthHandler) ClearToken(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
