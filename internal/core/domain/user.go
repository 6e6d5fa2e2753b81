package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode"
)

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RolePublisher = "publisher"
	RoleMentor    = "mentor"
)

// DefaultSignupRole is applied when a signup request carries no role.
const DefaultSignupRole = RoleUser

// UserID is the gateway-issued user identifier. Gateways emit it either as a
// JSON string or as a JSON number; both decode to the same textual form.
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// User models the authenticated actor as reported by the auth gateway.
type User struct {
	ID    UserID `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Role  string `json:"role" bson:"role"`
}

// Clone returns a copy of u, or nil when u is nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Initial is the upper-cased first letter of the user's name, used for avatars.
func (u *User) Initial() string {
	if u == nil {
		return ""
	}
	for _, r := range u.Name {
		return string(unicode.ToUpper(r))
	}
	return ""
}
