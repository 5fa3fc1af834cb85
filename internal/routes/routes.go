package routes

import (
	"github.com/gin-gonic/gin"

	"visaflow/internal/authz"
	"visaflow/internal/handlers"
	"visaflow/internal/middleware"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Leads   *handlers.LeadHandler
	Clients *handlers.ClientHandler
	Agents  *handlers.AgentHandler
	Team    *handlers.TeamHandler
	Reports *handlers.ReportHandler
}

func SetupRoutes(r *gin.Engine, tokens *middleware.TokenManager, h Handlers) *gin.Engine {
	// ---- public
	r.POST("/login", h.Auth.Login)

	// ---- protected
	api := r.Group("/", middleware.AuthMiddleware(tokens))
	api.GET("/me", h.Auth.Me)

	api.GET("/dashboard", middleware.RequireCapability(authz.CanSeeDashboard), h.Reports.Dashboard)

	// LEADS
	leads := api.Group("/leads", middleware.RequireCapability(authz.CanSeeLeads))
	{
		leads.GET("", h.Leads.List)
		leads.POST("", h.Leads.Create)
		leads.GET("/board", h.Leads.Board)
		leads.GET("/:id", h.Leads.GetByID)
		leads.POST("/:id/status", h.Leads.Move)
		leads.POST("/:id/follow-ups", h.Leads.AddFollowUp)
		leads.POST("/:id/assign", h.Leads.Assign)
		leads.POST("/:id/convert", middleware.RequireCapability(authz.CanSeeClients), h.Leads.Convert)
	}

	// CLIENTS
	clients := api.Group("/clients", middleware.RequireCapability(authz.CanSeeClients))
	{
		clients.GET("", h.Clients.List)
		clients.POST("", h.Clients.Create)
		clients.GET("/:id", h.Clients.GetByID)
		clients.PUT("/:id/statuses/:field", h.Clients.SetStatus)
		clients.POST("/:id/payments", h.Clients.AddPayment)
		clients.POST("/:id/expenses", middleware.RequireCapability(authz.CanSeeFinancials), h.Clients.AddExpense)
		clients.GET("/:id/statement", h.Clients.Statement)
	}

	// REPORTS
	reports := api.Group("/reports")
	{
		reports.GET("/outstanding", middleware.RequireCapability(authz.CanSeeDashboard), h.Reports.Outstanding)
		reports.GET("/top-agents", middleware.RequireCapability(authz.CanSeeAgents), h.Reports.TopAgents)
		reports.GET("/team-performance", middleware.RequireCapability(authz.CanSeeTeam), h.Reports.TeamPerformance)
	}
	api.GET("/transactions", middleware.RequireCapability(authz.CanSeeTransactions), h.Reports.Transactions)

	// AGENTS
	agents := api.Group("/agents", middleware.RequireCapability(authz.CanSeeAgents))
	{
		agents.GET("", h.Agents.List)
		agents.POST("", h.Agents.Create)
	}

	// TEAM
	team := api.Group("/team", middleware.RequireCapability(authz.CanSeeTeam))
	{
		team.GET("", h.Team.List)
		team.POST("", h.Team.Create)
	}

	return r
}
