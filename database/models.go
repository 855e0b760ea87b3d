package database

import "time"

// User is an account that owns todo groups. The password column holds a
// bcrypt hash and is never serialized.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TodoGroup is a named collection of task items owned by its creator.
type TodoGroup struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TaskItem is a single unit of work belonging to exactly one todo group.
type TaskItem struct {
	ID                 int64     `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Done               bool      `db:"done" json:"done"`
	ProgressPercentage int64     `db:"progress_percentage" json:"progress_percentage"`
	GroupTodoID        int64     `db:"group_todo_id" json:"group_todo_id"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
