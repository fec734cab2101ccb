// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID          string
	DisplayName string
	GlobalRole  string
	CreatedAt   time.Time
}
