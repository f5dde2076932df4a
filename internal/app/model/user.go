package model

// User is the identity resolved from a session token.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
