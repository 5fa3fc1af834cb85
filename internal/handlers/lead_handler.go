package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"visaflow/internal/models"
	"visaflow/internal/services"
)

type LeadHandler struct {
	Service   *services.LeadService
	Directory *services.DirectoryService
}

func NewLeadHandler(service *services.LeadService, dir *services.DirectoryService) *LeadHandler {
	return &LeadHandler{Service: service, Directory: dir}
}

// Create godoc
// @Summary   Create a lead
// @Tags      Leads
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     lead  body      services.CreateLeadInput  true  "Lead"
// @Success   201   {object}  models.Lead
// @Failure   400   {object}  map[string]string
// @Router    /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var in services.CreateLeadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	lead, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, "lead.create", err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.Service.List(c.Request.Context())
	if err != nil {
		writeError(c, "lead.list", err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// Board godoc
// @Summary   Leads grouped by status column
// @Tags      Leads
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  services.BoardColumn
// @Router    /leads/board [get]
func (h *LeadHandler) Board(c *gin.Context) {
	board, err := h.Service.Board(c.Request.Context())
	if err != nil {
		writeError(c, "lead.board", err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *LeadHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lead, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, "lead.get", err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

type moveLeadRequest struct {
	Status models.LeadStatus `json:"status" binding:"required"`
}

// Move godoc
// @Summary   Move a lead to another status
// @Tags      Leads
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      int              true  "Lead ID"
// @Param     body  body      moveLeadRequest  true  "Target status"
// @Success   200   {object}  models.Lead
// @Failure   400   {object}  map[string]string
// @Failure   404   {object}  map[string]string
// @Router    /leads/{id}/status [post]
func (h *LeadHandler) Move(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body moveLeadRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Service.Move(c.Request.Context(), id, body.Status); err != nil {
		writeError(c, "lead.move", err)
		return
	}
	h.respondLead(c, id)
}

type followUpRequest struct {
	Note string `json:"note"`
}

func (h *LeadHandler) AddFollowUp(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body followUpRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Service.AddFollowUp(c.Request.Context(), id, body.Note); err != nil {
		writeError(c, "lead.follow_up", err)
		return
	}
	h.respondLead(c, id)
}

type assignRequest struct {
	AssignedToID *int `json:"assigned_to_id"`
}

func (h *LeadHandler) Assign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body assignRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Service.Assign(c.Request.Context(), id, body.AssignedToID); err != nil {
		writeError(c, "lead.assign", err)
		return
	}
	h.respondLead(c, id)
}

// Convert godoc
// @Summary   Convert a qualified lead into a client
// @Tags      Leads
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id      path      int                  true  "Lead ID"
// @Param     client  body      createClientRequest  true  "Client fields"
// @Success   201     {object}  services.ClientView
// @Failure   409     {object}  map[string]string
// @Router    /leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body createClientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	in, err := body.input()
	if err != nil {
		writeError(c, "lead.convert", err)
		return
	}
	client, err := h.Service.ConvertToClient(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, "lead.convert", err)
		return
	}
	dir, err := h.Directory.Snapshot(c.Request.Context())
	if err != nil {
		writeError(c, "lead.convert", err)
		return
	}
	c.JSON(http.StatusCreated, services.NewClientView(client, dir, capabilities(c)))
}

func (h *LeadHandler) respondLead(c *gin.Context, id int) {
	lead, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, "lead.get", err)
		return
	}
	c.JSON(http.StatusOK, lead)
}
