package authz

// Role is the job function of a team member.
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleSales         Role = "Sales"
)

func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleSales
}

// Capability names a view or aggregate a role may read.
type Capability string

const (
	CanSeeDashboard    Capability = "canSeeDashboard"
	CanSeeLeads        Capability = "canSeeLeads"
	CanSeeClients      Capability = "canSeeClients"
	CanSeeAgents       Capability = "canSeeAgents"
	CanSeeTransactions Capability = "canSeeTransactions"
	CanSeeTeam         Capability = "canSeeTeam"
	CanSeeFinancials   Capability = "canSeeFinancials" // expenses and profit
)

type Capabilities struct {
	CanSeeDashboard    bool `json:"canSeeDashboard"`
	CanSeeLeads        bool `json:"canSeeLeads"`
	CanSeeClients      bool `json:"canSeeClients"`
	CanSeeAgents       bool `json:"canSeeAgents"`
	CanSeeTransactions bool `json:"canSeeTransactions"`
	CanSeeTeam         bool `json:"canSeeTeam"`
	CanSeeFinancials   bool `json:"canSeeFinancials"`
}

var permissions = map[Role]Capabilities{
	RoleAdministrator: {
		CanSeeDashboard:    true,
		CanSeeLeads:        true,
		CanSeeClients:      true,
		CanSeeAgents:       true,
		CanSeeTransactions: true,
		CanSeeTeam:         true,
		CanSeeFinancials:   true,
	},
	RoleSales: {
		CanSeeDashboard: true,
		CanSeeLeads:     true,
		CanSeeClients:   true,
		CanSeeAgents:    true,
	},
}

// CapabilitiesFor returns the capability set of role. Unknown roles get none.
func CapabilitiesFor(role Role) Capabilities {
	return permissions[role]
}

func (c Capabilities) Has(capability Capability) bool {
	switch capability {
	case CanSeeDashboard:
		return c.CanSeeDashboard
	case CanSeeLeads:
		return c.CanSeeLeads
	case CanSeeClients:
		return c.CanSeeClients
	case CanSeeAgents:
		return c.CanSeeAgents
	case CanSeeTransactions:
		return c.CanSeeTransactions
	case CanSeeTeam:
		return c.CanSeeTeam
	case CanSeeFinancials:
		return c.CanSeeFinancials
	}
	return false
}
