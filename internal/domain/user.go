package domain

import "time"

// User joins the account row with its person profile.
type User struct {
	ID        int
	Email     *string
	FirstName string
	LastName  string
	Document  *string
	Phone     *string
	DeletedAt *time.Time
}

func (u User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
