package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"visaflow/internal/pdf"
	"visaflow/internal/services"
)

type ClientHandler struct {
	Service   *services.ClientService
	Directory *services.DirectoryService
	Docs      pdf.Generator
}

func NewClientHandler(service *services.ClientService, dir *services.DirectoryService, docs pdf.Generator) *ClientHandler {
	return &ClientHandler{Service: service, Directory: dir, Docs: docs}
}

type createClientRequest struct {
	Name           string `json:"name"`
	PassportNo     string `json:"passport_no"`
	TotalFee       *int64 `json:"total_fee"`
	AgentID        *int   `json:"agent_id"`
	Provider       string `json:"provider"`
	Country        string `json:"country"`
	Job            string `json:"job"`
	SubmissionDate string `json:"submission_date"` // YYYY-MM-DD, today when empty
}

func (r createClientRequest) input() (services.CreateClientInput, error) {
	in := services.CreateClientInput{
		Name:       r.Name,
		PassportNo: r.PassportNo,
		TotalFee:   r.TotalFee,
		AgentID:    r.AgentID,
		Provider:   r.Provider,
		Country:    r.Country,
		Job:        r.Job,
	}
	if r.SubmissionDate != "" {
		d, err := parseDate(r.SubmissionDate)
		if err != nil {
			return in, err
		}
		in.SubmissionDate = &d
	}
	return in, nil
}

type ledgerEntryRequest struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Amount *int64 `json:"amount" binding:"required"`
	Method string `json:"method"`
	Type   string `json:"type"`
}

type statusRequest struct {
	Value string `json:"value" binding:"required"`
}

// Create godoc
// @Summary   Create a client
// @Tags      Clients
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     client  body      createClientRequest  true  "Client"
// @Success   201     {object}  services.ClientView
// @Failure   400     {object}  map[string]string
// @Router    /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var body createClientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	in, err := body.input()
	if err != nil {
		writeError(c, "client.create", err)
		return
	}
	client, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, "client.create", err)
		return
	}
	h.respondClient(c, http.StatusCreated, client.ID)
}

// List godoc
// @Summary      List clients
// @Description  Expense figures are only present for roles with canSeeFinancials
// @Tags         Clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  services.ClientView
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	clients, err := h.Service.List(ctx)
	if err != nil {
		writeError(c, "client.list", err)
		return
	}
	dir, err := h.Directory.Snapshot(ctx)
	if err != nil {
		writeError(c, "client.list", err)
		return
	}
	c.JSON(http.StatusOK, services.NewClientViews(clients, dir, capabilities(c)))
}

func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.respondClient(c, http.StatusOK, id)
}

// SetStatus godoc
// @Summary   Set one processing stage
// @Tags      Clients
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id     path      int            true  "Client ID"
// @Param     field  path      string         true  "Stage field, e.g. visa"
// @Param     body   body      statusRequest  true  "Stage value"
// @Success   200    {object}  services.ClientView
// @Failure   400    {object}  map[string]string
// @Failure   404    {object}  map[string]string
// @Router    /clients/{id}/statuses/{field} [put]
func (h *ClientHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body statusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Service.SetStatus(c.Request.Context(), id, c.Param("field"), body.Value); err != nil {
		writeError(c, "client.status", err)
		return
	}
	h.respondClient(c, http.StatusOK, id)
}

func (h *ClientHandler) AddPayment(c *gin.Context) {
	id, entry, ok := h.bindLedgerEntry(c)
	if !ok {
		return
	}
	date, err := parseDate(entry.Date)
	if err != nil {
		writeError(c, "client.payment", err)
		return
	}
	if err := h.Service.AddPayment(c.Request.Context(), id, date, *entry.Amount, entry.Method); err != nil {
		writeError(c, "client.payment", err)
		return
	}
	h.respondClient(c, http.StatusCreated, id)
}

func (h *ClientHandler) AddExpense(c *gin.Context) {
	id, entry, ok := h.bindLedgerEntry(c)
	if !ok {
		return
	}
	date, err := parseDate(entry.Date)
	if err != nil {
		writeError(c, "client.expense", err)
		return
	}
	if err := h.Service.AddExpense(c.Request.Context(), id, date, *entry.Amount, entry.Type); err != nil {
		writeError(c, "client.expense", err)
		return
	}
	h.respondClient(c, http.StatusCreated, id)
}

// Statement godoc
// @Summary   Download the client statement as PDF
// @Tags      Clients
// @Produce   application/pdf
// @Security  BearerAuth
// @Param     id  path  int  true  "Client ID"
// @Success   200
// @Failure   404  {object}  map[string]string
// @Router    /clients/{id}/statement [get]
func (h *ClientHandler) Statement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	client, err := h.Service.GetByID(ctx, id)
	if err != nil {
		writeError(c, "client.statement", err)
		return
	}
	dir, err := h.Directory.Snapshot(ctx)
	if err != nil {
		writeError(c, "client.statement", err)
		return
	}
	caps := capabilities(c)
	totals := services.CalculateClientTotals(client)
	data := pdf.StatementData{
		Client:         client,
		AgentName:      dir.AgentName(client.AgentID),
		TotalPaid:      totals.TotalPaid,
		BalanceDue:     totals.BalanceDue,
		ShowFinancials: caps.CanSeeFinancials,
		GeneratedAt:    time.Now(),
		Filename:       fmt.Sprintf("statement_client_%d_%s.pdf", id, uuid.NewString()),
	}
	if caps.CanSeeFinancials {
		data.TotalExpenses = totals.TotalExpenses
		data.NetProfit = totals.NetProfit
	}
	path, err := h.Docs.GenerateStatement(data)
	if err != nil {
		writeError(c, "client.statement", err)
		return
	}
	c.FileAttachment(path, fmt.Sprintf("statement_client_%d.pdf", id))
	if err := os.Remove(path); err != nil {
		log.Printf("[client][statement] warning: cleanup %s: %v", path, err)
	}
}

func (h *ClientHandler) bindLedgerEntry(c *gin.Context) (int, ledgerEntryRequest, bool) {
	var entry ledgerEntryRequest
	id, ok := parseID(c)
	if !ok {
		return 0, entry, false
	}
	if err := c.ShouldBindJSON(&entry); err != nil {
		badRequest(c, err)
		return 0, entry, false
	}
	return id, entry, true
}

func (h *ClientHandler) respondClient(c *gin.Context, status, id int) {
	ctx := c.Request.Context()
	client, err := h.Service.GetByID(ctx, id)
	if err != nil {
		writeError(c, "client.get", err)
		return
	}
	dir, err := h.Directory.Snapshot(ctx)
	if err != nil {
		writeError(c, "client.get", err)
		return
	}
	c.JSON(status, services.NewClientView(client, dir, capabilities(c)))
}
