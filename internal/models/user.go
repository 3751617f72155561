package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Avatar    string             `bson:"avatar" json:"avatar"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicProfile is what other users may see about an account.
type PublicProfile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest carries the fields a user may change on their own
// account. Nil fields are left untouched.
type ProfileUpdateRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=32"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72,maxbytes=72"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

func (r *ProfileUpdateRequest) Empty() bool {
	return r.Username == nil && r.Email == nil && r.Password == nil && r.Avatar == nil
}

// UserUpdate is the persisted form of a profile change; Password holds a hash.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	Avatar   *string
}
