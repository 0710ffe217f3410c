package domain

// Role is the caller role claimed by the authentication collaborator.
type Role string

const (
	RoleAccountant Role = "accountant"
	RoleNazer      Role = "nazer"
	RoleCashier    Role = "cashier"
	RoleAdmin      Role = "admin"
)

// Actor identifies the caller of an engine operation.
type Actor struct {
	UserID string
	Role   Role
}

// Capability names an operation guarded by the role table.
type Capability string

const (
	CapCreateDistribution  Capability = "create distribution"
	CapSubmitDistribution  Capability = "submit distribution"
	CapApproveDistribution Capability = "approve distribution"
	CapRejectDistribution  Capability = "reject distribution"
	CapDisburse            Capability = "disburse distribution"
	CapCloneDistribution   Capability = "clone distribution"
	CapPostJournal         Capability = "post journal entries"
	CapReverseJournal      Capability = "reverse journal entries"
	CapManageAccounts      Capability = "manage accounts"
	CapManageSettings      Capability = "manage distribution settings"
	CapManageFiscalYears   Capability = "manage fiscal years"
	CapPreviewClose        Capability = "preview fiscal year closing"
	CapCloseFiscalYear     Capability = "close fiscal years"
)

// capabilities is the single role table consulted by every guarded operation.
var capabilities = map[Capability][]Role{
	CapCreateDistribution:  {RoleAccountant, RoleAdmin},
	CapSubmitDistribution:  {RoleAccountant, RoleAdmin},
	CapApproveDistribution: {RoleNazer},
	CapRejectDistribution:  {RoleNazer},
	CapDisburse:            {RoleCashier, RoleAccountant},
	CapCloneDistribution:   {RoleAccountant, RoleAdmin},
	CapPostJournal:         {RoleAccountant, RoleAdmin},
	CapReverseJournal:      {RoleAccountant, RoleAdmin},
	CapManageAccounts:      {RoleAccountant, RoleAdmin},
	CapManageSettings:      {RoleAdmin, RoleNazer},
	CapManageFiscalYears:   {RoleAccountant, RoleAdmin},
	CapPreviewClose:        {RoleAccountant, RoleAdmin, RoleNazer},
	CapCloseFiscalYear:     {RoleAdmin, RoleNazer},
}

// Can reports whether role r holds capability c.
func (r Role) Can(c Capability) bool {
	for _, allowed := range capabilities[c] {
		if allowed == r {
			return true
		}
	}
	return false
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAccountant, RoleNazer, RoleCashier, RoleAdmin:
		return true
	}
	return false
}

// AllowedRoles returns the roles permitted to exercise c.
func AllowedRoles(c Capability) []Role {
	return append([]Role(nil), capabilities[c]...)
}
