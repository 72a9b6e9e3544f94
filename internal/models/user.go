package models

// User is the read-only view of an account owned by the account system.
// This service never creates, updates or deletes users.
type User struct {
	ID       int64  `json:"id" db:"id"`
	FullName string `json:"fullName" db:"full_name"`
	Email    string `json:"email" db:"email"`
}

// DisplayName returns the name to greet the user with in notifications,
// falling back to the email address when no name is stored
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
