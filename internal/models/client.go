package models

import "time"

// StageField is one of the eight processing checkpoints tracked per client.
type StageField string

const (
	StagePassportBook    StageField = "passportBook"
	StagePoliceClearance StageField = "policeClearance"
	StageMedicalFitCard  StageField = "medicalFitCard"
	StageMofa            StageField = "mofa"
	StageFingure         StageField = "fingure"
	StageVisa            StageField = "visa"
	StageManpower        StageField = "manpower"
	StageAirTicket       StageField = "airTicket"
)

// StageFields is the fixed key set of Client.Statuses, in display order.
var StageFields = []StageField{
	StagePassportBook,
	StagePoliceClearance,
	StageMedicalFitCard,
	StageMofa,
	StageFingure,
	StageVisa,
	StageManpower,
	StageAirTicket,
}

func (f StageField) Valid() bool {
	for _, sf := range StageFields {
		if f == sf {
			return true
		}
	}
	return false
}

type StageValue string

const (
	StagePending StageValue = "Pending"
	StageYes     StageValue = "Yes"
	StageNo      StageValue = "No"
	StageDone    StageValue = "Done"
	StageNone    StageValue = "None"
)

var StageValues = []StageValue{StagePending, StageYes, StageNo, StageDone, StageNone}

func (v StageValue) Valid() bool {
	for _, sv := range StageValues {
		if v == sv {
			return true
		}
	}
	return false
}

// Statuses always holds exactly the keys in StageFields.
type Statuses map[StageField]StageValue

// NewStatuses returns a matrix with every stage Pending.
func NewStatuses() Statuses {
	s := make(Statuses, len(StageFields))
	for _, f := range StageFields {
		s[f] = StagePending
	}
	return s
}

// Normalize fills missing stages with Pending and drops unknown keys.
func (s Statuses) Normalize() Statuses {
	out := NewStatuses()
	for f, v := range s {
		if f.Valid() && v.Valid() {
			out[f] = v
		}
	}
	return out
}

type Payment struct {
	Date   time.Time `json:"date"`
	Amount int64     `json:"amount"`
	Method string    `json:"method"`
}

type Expense struct {
	Date   time.Time `json:"date"`
	Amount int64     `json:"amount"`
	Type   string    `json:"type"`
}

// Client is a contracted visa-processing case.
type Client struct {
	ID             int       `json:"id"`
	SubmissionDate time.Time `json:"submission_date"`
	PassportNo     string    `json:"passport_no"`
	Name           string    `json:"name"`
	AgentID        *int      `json:"agent_id"`
	Country        string    `json:"country"`
	Job            string    `json:"job"`
	Provider       string    `json:"provider"`
	TotalFee       int64     `json:"total_fee"`
	Statuses       Statuses  `json:"statuses"`
	Payments       []Payment `json:"payments"`
	Expenses       []Expense `json:"expenses"`
}

// Clone returns a deep copy of c.
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	cp := *c
	cp.AgentID = cloneIntPtr(c.AgentID)
	cp.Statuses = make(Statuses, len(c.Statuses))
	for k, v := range c.Statuses {
		cp.Statuses[k] = v
	}
	cp.Payments = append([]Payment(nil), c.Payments...)
	cp.Expenses = append([]Expense(nil), c.Expenses...)
	return &cp
}
