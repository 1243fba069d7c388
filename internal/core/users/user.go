package users

import (
	"slices"
	"time"
)

// User is the view of an account this service needs: identity, the profile
// fields snapshotted into replies, and the following set used to build feeds.
type User struct {
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	ID          string    `json:"id" bson:"_id"`
	Username    string    `json:"username" bson:"username"`
	DisplayName string    `json:"displayName,omitempty" bson:"display_name"`
	Avatar      string    `json:"avatar,omitempty" bson:"avatar"`
	Following   []string  `json:"following" bson:"following"`
}

// Name returns the display name, falling back to the username
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Clone returns a copy that shares no slices with u
func (u *User) Clone() *User {
	c := *u
	c.Following = slices.Clone(u.Following)
	return &c
}
