// Package repository implements persistence for the marketplace
// entities over database/sql. This file defines sentinel errors reused
// across repositories so handlers can map failure scenarios onto the
// API's response taxonomy without string matching.
package repository

import "errors"

// ErrUsernameExists is returned when registration collides with an
// existing username (uniqueness is case-insensitive because usernames
// are lowercased before storage). Handlers translate this into the
// `username_taken` failure code.
var ErrUsernameExists = errors.New("username already exists")

// ErrNotFound is returned when a lookup by id matches no row. Handlers
// translate this into HTTP 400, which is what this API uses for
// missing resources.
var ErrNotFound = errors.New("not found")
