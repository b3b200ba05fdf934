package sdk

import "time"

// Profile identifies the role a user holds within the practice.
type Profile string

const (
	ProfileAdmin   Profile = "ADMIN"
	ProfileNotary  Profile = "NOTARY"
	ProfileClerk   Profile = "CLERK"
	ProfileAccount Profile = "ACCOUNTANT"
)

// User represents an authenticated user of the console. The pipeline treats
// users as immutable; the session manager replaces its cached copy wholesale
// whenever the server returns a fresh one.
type User struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	Profile       Profile    `json:"profile"`
	Online        bool       `json:"online"`
	MaritalStatus string     `json:"maritalStatus,omitempty"`
	Created       *time.Time `json:"created,omitempty"`
	Updated       *time.Time `json:"updated,omitempty"`
}

// Credentials are the inputs to a sign-in request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the payload for creating a new user account.
type Registration struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone,omitempty"`
	Password  string  `json:"password"`
	Profile   Profile `json:"profile,omitempty"`
}

// PasswordReset is the payload for requesting a password reset.
type PasswordReset struct {
	Email string `json:"email"`
}

// PasswordChange is the payload for changing a known user's password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthDetails is what the server returns from a successful sign-in or
// sign-up. The token pair is present when the server issues bearer tokens in
// addition to its cookie session; callers that only use cookie sessions may
// ignore it.
type AuthDetails struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
