package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"visaflow/internal/authz"
	"visaflow/internal/metrics"
	"visaflow/internal/middleware"
	"visaflow/internal/models"
	"visaflow/internal/services"
)

type AuthHandler struct {
	Auth    services.AuthProvider
	Team    *services.TeamService
	Tokens  *middleware.TokenManager
	Metrics *metrics.Metrics
}

func NewAuthHandler(auth services.AuthProvider, team *services.TeamService, tokens *middleware.TokenManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{Auth: auth, Team: team, Tokens: tokens, Metrics: m}
}

type loginResponse struct {
	AccessToken  string             `json:"access_token"`
	ExpiresAt    time.Time          `json:"expires_at"`
	User         models.TeamMember  `json:"user"`
	Capabilities authz.Capabilities `json:"capabilities"`
}

// Login godoc
// @Summary      Sign in
// @Description  Checks e-mail and password and returns an access token with the role's capabilities
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  loginResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	member, err := h.Auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthentication) {
			h.Metrics.LoginFailed()
		}
		writeError(c, "login", err)
		return
	}
	token, exp, err := h.Tokens.Issue(member.ID, member.Role)
	if err != nil {
		writeError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		AccessToken:  token,
		ExpiresAt:    exp,
		User:         *member,
		Capabilities: authz.CapabilitiesFor(member.Role),
	})
}

// Me godoc
// @Summary   Current user
// @Tags      Auth
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  map[string]interface{}
// @Failure   401  {object}  map[string]string
// @Router    /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, role := getUserAndRole(c)
	member, err := h.Team.GetByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, "me", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         member,
		"capabilities": authz.CapabilitiesFor(role),
	})
}
