package model

import "time"

// PublicUser is the client-facing view of a User.
type PublicUser struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Username   string    `json:"username"`
	Picture    string    `json:"picture"`
	Cover      string    `json:"cover,omitempty"`
	Gender     string    `json:"gender"`
	BirthYear  int       `json:"birthYear"`
	BirthMonth int       `json:"birthMonth"`
	BirthDay   int       `json:"birthDay"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToPublicUser copies the exposable fields of u. The password hash and the
// email address never leave the service through this view.
func ToPublicUser(u *User) PublicUser {
	return PublicUser{
		ID:         u.ID.String(),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
		Picture:    u.Picture,
		Cover:      u.Cover,
		Gender:     u.Gender,
		BirthYear:  u.BirthYear,
		BirthMonth: u.BirthMonth,
		BirthDay:   u.BirthDay,
		Verified:   u.Verified,
		CreatedAt:  u.CreatedAt,
	}
}
