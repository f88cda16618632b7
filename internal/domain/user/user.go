package user

import (
	"strings"
	"time"
)

// Account is the directory record. It is the only type that carries the
// credential.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is an Account without its credential; it is what a session holds.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsAdmin   bool   `json:"isAdmin"`
}

func (a Account) Profile() Profile {
	return Profile{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		IsAdmin:   a.IsAdmin,
	}
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ProfileUpdate holds the fields a visitor may change; nil means unchanged.
type ProfileUpdate struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func (u ProfileUpdate) Apply(a Account) Account {
	if u.Email != nil {
		a.Email = strings.TrimSpace(*u.Email)
	}
	if u.FirstName != nil {
		a.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		a.LastName = *u.LastName
	}
	return a
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
