// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// User represents a registered account.
//
// The primary key is an INTEGER AUTOINCREMENT rowid assigned by SQLite, so the
// ID field is int64 — the natural Go type for SQLite integer columns.
//
// PasswordHash holds a bcrypt hash, never the plaintext password. The json tag
// "-" makes sure the hash can never leak into a JSON response, even if someone
// accidentally encodes a User.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
