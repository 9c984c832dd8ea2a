package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Bio         string
	Role        string
	IsStaff     string
	IsSuperuser string
	LastLoginAt string
	CreatedAt   string
	UpdatedAt   string

	// Named constraints surfaced by dberr.UniqueViolation.
	UniqueUsername string
	UniqueEmail    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	FirstName:   "firstname",
	LastName:    "lastname",
	Bio:         "bio",
	Role:        "role",
	IsStaff:     "isstaff",
	IsSuperuser: "issuperuser",
	LastLoginAt: "lastloginat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",

	UniqueUsername: "uq_account_username",
	UniqueEmail:    "uq_account_email",
}

// Columns returns all standard column names in scan order
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FirstName, t.LastName, t.Bio, t.Role,
		t.IsStaff, t.IsSuperuser, t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
