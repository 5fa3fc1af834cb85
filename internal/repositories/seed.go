package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"visaflow/internal/authz"
	"visaflow/internal/models"
)

// PasswordHasher turns a plain password into its stored form.
type PasswordHasher func(plain string) (string, error)

type seedMember struct {
	name, email, password string
	role                  authz.Role
}

// Seed loads the demo agency into an empty store. A store that already
// has team members is left untouched.
func Seed(ctx context.Context, s *Store, hash PasswordHasher) error {
	existing, err := s.Team.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("[seed] skip: store already has %d team members", len(existing))
		return nil
	}

	agents := []models.Agent{
		{Name: "Alom 101", Phone: "01712345678"},
		{Name: "Habib Khan", Phone: "01987654321"},
		{Name: "RJ Travels", Phone: "01811223344"},
		{Name: "NF Overseas", Phone: "01655443322"},
	}
	for i := range agents {
		if err := s.Agents.Create(ctx, &agents[i]); err != nil {
			return fmt.Errorf("seed agent: %w", err)
		}
	}

	members := []seedMember{
		{"Admin User", "admin@visaflow.com", "admin", authz.RoleAdministrator},
		{"Sales Executive 1", "sales1@visaflow.com", "sales", authz.RoleSales},
		{"Sales Executive 2", "sales2@visaflow.com", "sales", authz.RoleSales},
	}
	team := make([]models.TeamMember, len(members))
	for i, m := range members {
		h, err := hash(m.password)
		if err != nil {
			return fmt.Errorf("seed team member: %w", err)
		}
		team[i] = models.TeamMember{Name: m.name, Role: m.role, Email: m.email, PasswordHash: h}
		if err := s.Team.Create(ctx, &team[i]); err != nil {
			return fmt.Errorf("seed team member: %w", err)
		}
	}

	sales1, sales2 := &team[1].ID, &team[2].ID
	created := day("2025-10-17")
	leads := []models.Lead{
		{Name: "Prospective Client A", Phone: "01700000001", Source: "Facebook Ad", Status: models.LeadStatusNew,
			AssignedToID: sales1, Notes: "Interested in Dubai visa.",
			FollowUps: []models.FollowUp{{Date: day("2025-10-17"), Note: "Initial lead created."}}},
		{Name: "Prospective Client B", Phone: "01800000002", Source: "Agent Referral", Status: models.LeadStatusContacted,
			AssignedToID: sales2, Notes: "Called once, needs follow-up next week.",
			FollowUps: []models.FollowUp{
				{Date: day("2025-10-18"), Note: "Called, client is busy. Asked to call back next week."},
				{Date: day("2025-10-17"), Note: "Initial lead created."},
			}},
		{Name: "Prospective Client C", Phone: "01900000003", Source: "Walk-in", Status: models.LeadStatusFollowUp,
			AssignedToID: sales1, Notes: "Wants to bring passport on Monday."},
		{Name: "Prospective Client D", Phone: "01600000004", Source: "Website", Status: models.LeadStatusQualified,
			AssignedToID: sales2, Notes: "Ready to pay booking money."},
		{Name: "Prospective Client E", Phone: "01500000005", Source: "Facebook Ad", Status: models.LeadStatusLost,
			AssignedToID: sales1, Notes: "Found a cheaper option elsewhere."},
		{Name: "Prospective Client F", Phone: "01700000006", Source: "Agent Referral", Status: models.LeadStatusNew,
			Notes: "New inquiry from Agent Habib."},
	}
	for i := range leads {
		leads[i].CreatedAt = created
		if leads[i].FollowUps == nil {
			leads[i].FollowUps = []models.FollowUp{}
		}
		if err := s.Leads.Create(ctx, &leads[i]); err != nil {
			return fmt.Errorf("seed lead: %w", err)
		}
	}

	alom := &agents[0].ID
	clients := []models.Client{
		{
			SubmissionDate: day("2025-10-18"), PassportNo: "A12345678", Name: "Md Alamger Kabir", AgentID: alom,
			Country: "Saudi Arabia", Job: "Airport Job", Provider: "NF Overseas", TotalFee: 500000,
			Statuses: models.Statuses{
				models.StagePassportBook: models.StageYes, models.StagePoliceClearance: models.StageYes,
				models.StageMedicalFitCard: models.StageYes, models.StageMofa: models.StageDone,
				models.StageFingure: models.StageYes, models.StageVisa: models.StagePending,
				models.StageManpower: models.StagePending, models.StageAirTicket: models.StagePending,
			},
			Payments: []models.Payment{
				{Date: day("2025-10-10"), Amount: 200000, Method: "Bank"},
				{Date: day("2025-10-15"), Amount: 150000, Method: "Cash"},
			},
			Expenses: []models.Expense{
				{Date: day("2025-10-12"), Amount: 5500, Type: "Medical"},
				{Date: day("2025-10-15"), Amount: 2100, Type: "Mofa"},
				{Date: day("2025-10-17"), Amount: 250000, Type: "Visa Fee"},
			},
		},
		{
			SubmissionDate: day("2025-10-16"), PassportNo: "B98765432", Name: "MD Mohir Uddin", AgentID: alom,
			Country: "Saudi Arabia", Job: "Free Visa", Provider: "RJ Travels", TotalFee: 450000,
			Statuses: models.Statuses{
				models.StagePassportBook: models.StageYes, models.StagePoliceClearance: models.StageYes,
				models.StageMedicalFitCard: models.StageYes, models.StageMofa: models.StageDone,
				models.StageFingure: models.StageNone, models.StageVisa: models.StageNo,
				models.StageManpower: models.StageNo, models.StageAirTicket: models.StageNo,
			},
			Payments: []models.Payment{{Date: day("2025-10-11"), Amount: 450000, Method: "Cash"}},
			Expenses: []models.Expense{{Date: day("2025-10-11"), Amount: 380000, Type: "Full Package"}},
		},
		{
			SubmissionDate: day("2025-10-17"), PassportNo: "C45678901", Name: "Sourav Ahmed",
			Country: "United Arab Emirates", Job: "Salesman", Provider: "Habib Khan", TotalFee: 480000,
			Statuses: models.Statuses{
				models.StagePassportBook: models.StageYes, models.StagePoliceClearance: models.StageYes,
				models.StageMedicalFitCard: models.StageYes, models.StageMofa: models.StageDone,
				models.StageFingure: models.StageYes, models.StageVisa: models.StagePending,
				models.StageManpower: models.StagePending, models.StageAirTicket: models.StagePending,
			},
			Payments: []models.Payment{{Date: day("2025-10-12"), Amount: 100000, Method: "Bkash"}},
			Expenses: []models.Expense{{Date: day("2025-10-13"), Amount: 6000, Type: "Medical"}},
		},
	}
	for i := range clients {
		if err := s.Clients.Create(ctx, &clients[i]); err != nil {
			return fmt.Errorf("seed client: %w", err)
		}
	}

	log.Printf("[seed] loaded agents=%d team=%d leads=%d clients=%d", len(agents), len(team), len(leads), len(clients))
	return nil
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
