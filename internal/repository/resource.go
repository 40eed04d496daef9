// Package repository wraps all SQL used throughout the API and worker. Every
// user-facing read and write is scoped by owner id.
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

// ErrNotFound is returned when a record does not exist or is not owned by the
// requesting user.
var ErrNotFound = errors.New("record not found")

// ResourceRepository persists resources and their images.
type ResourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository constructs a repository.
func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

// Create inserts a resource in the processing state. Plain-text resources
// carry their content in Transcript from the start; every other type starts
// with an empty transcript.
func (r *ResourceRepository) Create(ctx context.Context, res *model.Resource) error {
	now := time.Now().UTC()
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	res.Status = model.StatusProcessing
	res.CreatedAt = now
	res.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `
		INSERT INTO resources (id, user_id, folder_id, resource_type, title, source_url, transcript, summary_notes, emoji, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, res.ID, res.UserID, res.FolderID, res.Type, res.Title, res.SourceURL, res.Transcript, res.SummaryNotes, res.Emoji, res.Status, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

// Get returns a resource by id without its transcript. The transcript column
// is skipped on ordinary reads because it can be large; use GetTranscript.
func (r *ResourceRepository) Get(ctx context.Context, id string) (*model.Resource, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, folder_id, resource_type, COALESCE(title,''), COALESCE(source_url,''), COALESCE(summary_notes,''), COALESCE(emoji,''), status, created_at, updated_at
		FROM resources WHERE id=$1
	`, id)
	return scanResource(row)
}

// GetOwned returns a resource by id, restricted to the owning user.
func (r *ResourceRepository) GetOwned(ctx context.Context, id, userID string) (*model.Resource, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, folder_id, resource_type, COALESCE(title,''), COALESCE(source_url,''), COALESCE(summary_notes,''), COALESCE(emoji,''), status, created_at, updated_at
		FROM resources WHERE id=$1 AND user_id=$2
	`, id, userID)
	return scanResource(row)
}

// GetTranscript loads only the transcript column for an owned resource.
func (r *ResourceRepository) GetTranscript(ctx context.Context, id, userID string) (string, error) {
	var transcript string
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(transcript,'') FROM resources WHERE id=$1 AND user_id=$2
	`, id, userID).Scan(&transcript)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("select transcript: %w", err)
	}
	return transcript, nil
}

// LoadTranscript loads the transcript for a resource without owner scoping.
// It is used by the background pipeline, which is keyed by resource id.
func (r *ResourceRepository) LoadTranscript(ctx context.Context, id string) (string, error) {
	var transcript string
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(transcript,'') FROM resources WHERE id=$1
	`, id).Scan(&transcript)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("select transcript: %w", err)
	}
	return transcript, nil
}

// UpdateStatus moves the resource to the given pipeline status.
func (r *ResourceRepository) UpdateStatus(ctx context.Context, id string, status model.ResourceStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE resources SET status=$1, updated_at=$2 WHERE id=$3
	`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTranscript stores the extraction output (real content or a degraded
// placeholder).
func (r *ResourceRepository) SetTranscript(ctx context.Context, id, transcript string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE resources SET transcript=$1, updated_at=$2 WHERE id=$3
	`, transcript, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update transcript: %w", err)
	}
	return nil
}

// SetSummary stores summary notes, overwriting the emoji only when a new one
// was produced.
func (r *ResourceRepository) SetSummary(ctx context.Context, id, notes, emoji string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE resources
		SET summary_notes=$1,
			emoji = CASE WHEN $2 <> '' THEN $2 ELSE emoji END,
			updated_at=$3
		WHERE id=$4
	`, notes, emoji, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	return nil
}

// SetTitle stores a title unless one is already present. Titles are never
// overwritten once set.
func (r *ResourceRepository) SetTitle(ctx context.Context, id, title string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE resources SET title=$1, updated_at=$2
		WHERE id=$3 AND (title IS NULL OR title='')
	`, title, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

// ListByFolder returns the resources in a folder, newest first, without
// transcripts.
func (r *ResourceRepository) ListByFolder(ctx context.Context, folderID, userID string) ([]*model.Resource, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, folder_id, resource_type, COALESCE(title,''), COALESCE(source_url,''), COALESCE(summary_notes,''), COALESCE(emoji,''), status, created_at, updated_at
		FROM resources WHERE folder_id=$1 AND user_id=$2
		ORDER BY created_at DESC
	`, folderID, userID)
	if err != nil {
		return nil, fmt.Errorf("select resources: %w", err)
	}
	defer rows.Close()
	var out []*model.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Delete removes a resource and everything derived from it.
func (r *ResourceRepository) Delete(ctx context.Context, id, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback(ctx)
	for _, stmt := range []string{
		`DELETE FROM flash_cards WHERE resource_id=$1 AND user_id=$2`,
		`DELETE FROM quiz_questions WHERE resource_id=$1 AND user_id=$2`,
		`DELETE FROM resource_images WHERE resource_id=$1 AND user_id=$2`,
	} {
		if _, err := tx.Exec(ctx, stmt, id, userID); err != nil {
			return fmt.Errorf("delete derived rows: %w", err)
		}
	}
	tag, err := tx.Exec(ctx, `DELETE FROM resources WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// AddImage registers one image of an image_set resource.
func (r *ResourceRepository) AddImage(ctx context.Context, img *model.ResourceImage) error {
	now := time.Now().UTC()
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	img.CreatedAt = now
	_, err := r.pool.Exec(ctx, `
		INSERT INTO resource_images (id, user_id, resource_id, image_url, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, img.ID, img.UserID, img.ResourceID, img.ImageURL, img.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert resource image: %w", err)
	}
	return nil
}

// ListImages returns the images of a resource ordered by upload time.
func (r *ResourceRepository) ListImages(ctx context.Context, resourceID string) ([]*model.ResourceImage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, resource_id, image_url, created_at
		FROM resource_images WHERE resource_id=$1
		ORDER BY created_at ASC
	`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("select resource images: %w", err)
	}
	defer rows.Close()
	var out []*model.ResourceImage
	for rows.Next() {
		img := &model.ResourceImage{}
		if err := rows.Scan(&img.ID, &img.UserID, &img.ResourceID, &img.ImageURL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource image: %w", err)
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*model.Resource, error) {
	res := &model.Resource{}
	err := row.Scan(&res.ID, &res.UserID, &res.FolderID, &res.Type, &res.Title, &res.SourceURL, &res.SummaryNotes, &res.Emoji, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan resource: %w", err)
	}
	return res, nil
}
