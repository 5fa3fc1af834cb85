package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"visaflow/internal/authz"
	"visaflow/internal/services"
)

type AgentHandler struct {
	Service *services.AgentService
	Reports *services.ReportService
}

func NewAgentHandler(service *services.AgentService, reports *services.ReportService) *AgentHandler {
	return &AgentHandler{Service: service, Reports: reports}
}

func (h *AgentHandler) Create(c *gin.Context) {
	var in services.CreateAgentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	agent, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, "agent.create", err)
		return
	}
	c.JSON(http.StatusCreated, agent)
}

// List returns every agent with its referred client count.
func (h *AgentHandler) List(c *gin.Context) {
	data, err := h.Reports.AgentReferrals(c.Request.Context())
	if err != nil {
		writeError(c, "agent.list", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

type TeamHandler struct {
	Service *services.TeamService
}

func NewTeamHandler(service *services.TeamService) *TeamHandler {
	return &TeamHandler{Service: service}
}

type createMemberRequest struct {
	Name     string     `json:"name" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Role     authz.Role `json:"role" binding:"required"`
	Password string     `json:"password" binding:"required"`
}

// Create godoc
// @Summary   Add a team member
// @Tags      Team
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     member  body      createMemberRequest  true  "Member"
// @Success   201     {object}  models.TeamMember
// @Failure   400     {object}  map[string]string
// @Failure   409     {object}  map[string]string
// @Router    /team [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	member, err := h.Service.Create(c.Request.Context(), services.CreateMemberInput(req))
	if err != nil {
		writeError(c, "team.create", err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *TeamHandler) List(c *gin.Context) {
	members, err := h.Service.List(c.Request.Context())
	if err != nil {
		writeError(c, "team.list", err)
		return
	}
	c.JSON(http.StatusOK, members)
}
