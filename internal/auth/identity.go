package auth

type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleBranchAdmin Role = "BRANCH_ADMIN"
	RoleManager     Role = "MANAGER"
	RoleStaff       Role = "STAFF"
	RoleTrainer     Role = "TRAINER"
	RoleMember      Role = "MEMBER"
)

// StaffRoles are the roles counted against a plan's "staff" limit.
var StaffRoles = []Role{RoleStaff, RoleTrainer, RoleManager}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleBranchAdmin, RoleManager, RoleStaff, RoleTrainer, RoleMember:
		return true
	}
	return false
}

func (r Role) IsStaff() bool {
	for _, s := range StaffRoles {
		if r == s {
			return true
		}
	}
	return false
}

// Identity is the pre-authenticated caller every service operation takes.
type Identity struct {
	UserID   int
	TenantID int
	Email    string
	Role     Role
}

func (i Identity) IsSuperAdmin() bool {
	return i.Role == RoleSuperAdmin
}
