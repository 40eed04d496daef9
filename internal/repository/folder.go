package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcollings/studyforge/internal/model"
)

// FolderRepository persists the per-user folder tree.
type FolderRepository struct {
	pool *pgxpool.Pool
}

// NewFolderRepository constructs a repository.
func NewFolderRepository(pool *pgxpool.Pool) *FolderRepository {
	return &FolderRepository{pool: pool}
}

// Create inserts a folder. When a parent is given it must exist and belong to
// the same user.
func (r *FolderRepository) Create(ctx context.Context, folder *model.Folder) error {
	if folder.ParentFolderID != "" {
		if _, err := r.Get(ctx, folder.ParentFolderID, folder.UserID); err != nil {
			return fmt.Errorf("parent folder: %w", err)
		}
	}
	now := time.Now().UTC()
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	folder.CreatedAt = now
	folder.UpdatedAt = now
	var parent any
	if folder.ParentFolderID != "" {
		parent = folder.ParentFolderID
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO folders (id, user_id, name, parent_folder_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, folder.ID, folder.UserID, folder.Name, parent, folder.CreatedAt, folder.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

// Get returns a folder owned by the user.
func (r *FolderRepository) Get(ctx context.Context, id, userID string) (*model.Folder, error) {
	folder := &model.Folder{}
	var parent *string
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, parent_folder_id, created_at, updated_at
		FROM folders WHERE id=$1 AND user_id=$2
	`, id, userID).Scan(&folder.ID, &folder.UserID, &folder.Name, &parent, &folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select folder: %w", err)
	}
	if parent != nil {
		folder.ParentFolderID = *parent
	}
	return folder, nil
}

// ListChildren returns the direct subfolders of a folder, newest first. The
// root level is addressed with an empty parent id.
func (r *FolderRepository) ListChildren(ctx context.Context, parentID, userID string) ([]*model.Folder, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if parentID == "" {
		rows, err = r.pool.Query(ctx, `
			SELECT id, user_id, name, parent_folder_id, created_at, updated_at
			FROM folders WHERE parent_folder_id IS NULL AND user_id=$1
			ORDER BY created_at DESC
		`, userID)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id, user_id, name, parent_folder_id, created_at, updated_at
			FROM folders WHERE parent_folder_id=$1 AND user_id=$2
			ORDER BY created_at DESC
		`, parentID, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("select folders: %w", err)
	}
	defer rows.Close()
	var out []*model.Folder
	for rows.Next() {
		folder := &model.Folder{}
		var parent *string
		if err := rows.Scan(&folder.ID, &folder.UserID, &folder.Name, &parent, &folder.CreatedAt, &folder.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		if parent != nil {
			folder.ParentFolderID = *parent
		}
		out = append(out, folder)
	}
	return out, rows.Err()
}

// Delete removes a single folder row. Cascading into subfolders and resources
// is the caller's job so blob cleanup can run per resource.
func (r *FolderRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM folders WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
