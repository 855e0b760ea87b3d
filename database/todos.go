package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// CreateTodoGroup inserts a new group owned by createdBy.
func (s *Store) CreateTodoGroup(ctx context.Context, title, description string, createdBy int64) (*TodoGroup, error) {
	now := time.Now().UTC()

	query, args, err := builder().
		Insert("group_todos").
		Columns("title", "description", "created_by", "created_at", "updated_at").
		Values(title, description, createdBy, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert todo group: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read todo group id: %w", err)
	}

	return &TodoGroup{
		ID:          id,
		Title:       title,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ListTodoGroups returns all groups created by the given user, newest first.
func (s *Store) ListTodoGroups(ctx context.Context, createdBy int64) ([]TodoGroup, error) {
	query, args, err := builder().
		Select("*").
		From("group_todos").
		Where(sq.Eq{"created_by": createdBy}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	groups := []TodoGroup{}
	if err := s.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query todo groups: %w", err)
	}
	return groups, nil
}

// GetTodoGroup fetches a single group by id, scoped to its creator. A group
// that does not exist or belongs to someone else yields ErrNotFound.
func (s *Store) GetTodoGroup(ctx context.Context, id, createdBy int64) (*TodoGroup, error) {
	query, args, err := builder().
		Select("*").
		From("group_todos").
		Where(sq.Eq{"id": id, "created_by": createdBy}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var group TodoGroup
	err = s.db.GetContext(ctx, &group, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query todo group: %w", err)
	}
	return &group, nil
}

// UpdateTodoGroup replaces title and description on the caller's group and
// returns the updated record. Zero matched rows yield ErrNotFound.
func (s *Store) UpdateTodoGroup(ctx context.Context, id, createdBy int64, title, description string) (*TodoGroup, error) {
	query, args, err := builder().
		Update("group_todos").
		Set("title", title).
		Set("description", description).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "created_by": createdBy}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo group: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetTodoGroup(ctx, id, createdBy)
}

// DeleteTodoGroup removes the caller's group. Its task items go with it via
// the cascading foreign key. Zero matched rows yield ErrNotFound.
func (s *Store) DeleteTodoGroup(ctx context.Context, id, createdBy int64) error {
	query, args, err := builder().
		Delete("group_todos").
		Where(sq.Eq{"id": id, "created_by": createdBy}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete todo group: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		return ErrNotFound
	}
	return nil
}
