package domain

import (
	"time"

	"github.com/google/uuid"
)

// Todo is a task owned by exactly one user.
// Done only ever moves from false to true.
type Todo struct {
	ID        uuid.UUID
	Title     string
	Done      bool
	Deadline  time.Time
	CreatedAt time.Time
}
