package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// CreateTaskItem inserts a new task under the given group with done=false.
func (s *Store) CreateTaskItem(ctx context.Context, groupID int64, name string, progressPercentage int64) (*TaskItem, error) {
	now := time.Now().UTC()

	query, args, err := builder().
		Insert("task_items").
		Columns("name", "done", "progress_percentage", "group_todo_id", "created_at", "updated_at").
		Values(name, false, progressPercentage, groupID, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read task item id: %w", err)
	}

	return &TaskItem{
		ID:                 id,
		Name:               name,
		Done:               false,
		ProgressPercentage: progressPercentage,
		GroupTodoID:        groupID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// ListTaskItems returns all tasks in a group, oldest first.
func (s *Store) ListTaskItems(ctx context.Context, groupID int64) ([]TaskItem, error) {
	query, args, err := builder().
		Select("*").
		From("task_items").
		Where(sq.Eq{"group_todo_id": groupID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	tasks := []TaskItem{}
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query task items: %w", err)
	}
	return tasks, nil
}

// GetTaskItem fetches a task by id scoped to its group.
func (s *Store) GetTaskItem(ctx context.Context, id, groupID int64) (*TaskItem, error) {
	query, args, err := builder().
		Select("*").
		From("task_items").
		Where(sq.Eq{"id": id, "group_todo_id": groupID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var task TaskItem
	err = s.db.GetContext(ctx, &task, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task item: %w", err)
	}
	return &task, nil
}

// UpdateTaskItem updates name and progress of a task in groupID and moves it
// to targetGroupID. Callers pass targetGroupID == groupID when the task is
// not being re-parented. Zero matched rows yield ErrNotFound.
func (s *Store) UpdateTaskItem(ctx context.Context, id, groupID int64, name string, progressPercentage, targetGroupID int64) (*TaskItem, error) {
	query, args, err := builder().
		Update("task_items").
		Set("name", name).
		Set("progress_percentage", progressPercentage).
		Set("group_todo_id", targetGroupID).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "group_todo_id": groupID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update task item: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetTaskItem(ctx, id, targetGroupID)
}

// DeleteTaskItem removes a task by id scoped to its group. Zero matched rows
// yield ErrNotFound, so a second delete of the same task reports not found.
func (s *Store) DeleteTaskItem(ctx context.Context, id, groupID int64) error {
	query, args, err := builder().
		Delete("task_items").
		Where(sq.Eq{"id": id, "group_todo_id": groupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete task item: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		return ErrNotFound
	}
	return nil
}
