package domain

// Role identifies the kind of actor behind an account.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleCompany Role = "COMPANY"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// StudentProfile carries the attributes that only exist for student accounts.
type StudentProfile struct {
	University     string `json:"university,omitempty"`
	Major          string `json:"major,omitempty"`
	GraduationYear int    `json:"graduationYear,omitempty"`
	Resume         string `json:"resume,omitempty"`
}

// CompanyProfile carries the attributes that only exist for company accounts.
type CompanyProfile struct {
	CompanyName string `json:"companyName,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

// User is the role-tagged identity record. Role is the discriminant: at most
// one of Student/Company is set, and only when it matches Role.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`

	Student *StudentProfile `json:"student,omitempty"`
	Company *CompanyProfile `json:"company,omitempty"`
}

// Validate checks the role discriminant and the profile/role pairing.
func (u *User) Validate() error {
	if u == nil {
		return NewError(CodeMalformedResponse, "missing user record")
	}
	if u.Username == "" {
		return NewError(CodeMalformedResponse, "user record has no username")
	}
	if !u.Role.Valid() {
		return NewError(CodeMalformedResponse, "unknown role: "+string(u.Role))
	}
	if u.Student != nil && u.Role != RoleStudent {
		return NewError(CodeMalformedResponse, "student profile on non-student account")
	}
	if u.Company != nil && u.Role != RoleCompany {
		return NewError(CodeMalformedResponse, "company profile on non-company account")
	}
	return nil
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Student != nil {
		s := *u.Student
		clone.Student = &s
	}
	if u.Company != nil {
		c := *u.Company
		clone.Company = &c
	}
	return &clone
}
