package repository

import (
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("not found")

// User is an operator account. Its username is the actor recorded in order history.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
}
