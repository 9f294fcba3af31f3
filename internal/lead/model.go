package lead

import "time"

type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusConverted Status = "Converted"
	StatusLost      Status = "Lost"
)

var transitions = map[Status][]Status{
	StatusNew:       {StatusContacted, StatusLost, StatusConverted},
	StatusContacted: {StatusLost, StatusConverted},
}

// CanTransition reports whether a lead in from may move to to. Converted
// and Lost are terminal.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Lead struct {
	ID        int       `db:"id" json:"id"`
	TenantID  int       `db:"tenant_id" json:"tenant_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Source    string    `db:"source" json:"source"`
	Status    Status    `db:"status" json:"status"`
	Notes     string    `db:"notes" json:"notes"`
	MemberID  *int      `db:"member_id" json:"member_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	TenantID *int   `json:"tenant_id"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Source   string `json:"source"`
	Notes    string `json:"notes"`
}

type NoteRequest struct {
	Note string `json:"note"`
}

type ConvertRequest struct {
	PlanID   *int   `json:"plan_id"`
	JoinDate string `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
}

// ConvertResponse is the lead after conversion with the member it became.
type ConvertResponse struct {
	Lead     *Lead `json:"lead"`
	MemberID int   `json:"member_id"`
	UserID   *int  `json:"user_id,omitempty"`
}
