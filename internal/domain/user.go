package domain

import "github.com/google/uuid"

// User is an account identified by a unique username. Todos keeps
// insertion order.
type User struct {
	ID       uuid.UUID
	Name     string
	Username string
	Todos    []Todo
}

// Clone returns a copy of u that shares no state with it.
func (u User) Clone() User {
	out := u
	out.Todos = make([]Todo, len(u.Todos))
	copy(out.Todos, u.Todos)
	return out
}
