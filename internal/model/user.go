package model

import "time"

// User represents an application user record as stored in the
// `users` table. Usernames are normalized to lowercase before
// storage so uniqueness is case-insensitive. The password is never
// stored; only its bcrypt hash. JSON tags are omitted because these
// structs are used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique lowercased username (4-32 chars).
//  PasswordHash – bcrypt hashed password.
//  Contact      – free-text contact method shown to buyers.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Contact      string    // users.contact
	CreatedAt    time.Time // users.created_at
}
