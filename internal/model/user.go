package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPicture is assigned to every new user until they upload their own.
const DefaultPicture = "https://c8.alamy.com/zooms/9/80d94c5b96c54446b2dc609a62b9f61b/2c5xkmf.jpg"

// Gender values accepted at signup.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// User is a registered member of the network.
type User struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName  string    `json:"firstName" gorm:"size:50;not null"`
	LastName   string    `json:"lastName" gorm:"size:50;not null"`
	Username   string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password   string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never exposed
	Picture    string    `json:"picture" gorm:"size:512"`
	Cover      string    `json:"cover,omitempty" gorm:"size:512"`
	Gender     string    `json:"gender" gorm:"size:16;not null"`
	BirthYear  int       `json:"birthYear" gorm:"not null"`
	BirthMonth int       `json:"birthMonth" gorm:"not null"`
	BirthDay   int       `json:"birthDay" gorm:"not null"`
	Verified   bool      `json:"verified" gorm:"default:false"`

	// Social graph data; stored but not acted upon here.
	Friends    []string     `json:"friends" gorm:"serializer:json"`
	Following  []string     `json:"following" gorm:"serializer:json"`
	Followers  []string     `json:"followers" gorm:"serializer:json"`
	Requests   []string     `json:"requests" gorm:"serializer:json"`
	SavedPosts []SavedPost  `json:"savedPosts" gorm:"serializer:json"`
	Details    *UserDetails `json:"details,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SavedPost references a post bookmarked by the user.
type SavedPost struct {
	PostID  string    `json:"post"`
	SavedAt time.Time `json:"savedAt"`
}

// UserDetails is free-form profile information.
type UserDetails struct {
	Bio          string `json:"bio,omitempty"`
	Job          string `json:"job,omitempty"`
	Workplace    string `json:"workplace,omitempty"`
	HighSchool   string `json:"highSchool,omitempty"`
	College      string `json:"college,omitempty"`
	CurrentCity  string `json:"currentCity,omitempty"`
	Hometown     string `json:"hometown,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Instagram    string `json:"instagram,omitempty"`
}

// BeforeCreate assigns the id and default picture.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Picture == "" {
		u.Picture = DefaultPicture
	}
	return nil
}
