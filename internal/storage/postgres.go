package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
)

// postgresStorage keeps the notes folder in PostgreSQL: one row per object in
// vault_objects, folders registered in vault_folders. The schema is created by
// the migration package.
type postgresStorage struct {
	db *sql.DB
}

// NewPostgres creates a Storage on an open database handle.
func NewPostgres(db *sql.DB) Storage {
	return &postgresStorage{db: db}
}

func (p *postgresStorage) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *postgresStorage) EnsureFolder(ctx context.Context, folder string) error {
	const q = `INSERT INTO vault_folders (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	if _, err := p.db.ExecContext(ctx, q, folder); err != nil {
		return fmt.Errorf("ensure folder %q: %w", folder, err)
	}
	return nil
}

func (p *postgresStorage) List(ctx context.Context, folder string) ([]ObjectInfo, error) {
	var exists bool
	const qFolder = `SELECT EXISTS (SELECT 1 FROM vault_folders WHERE name = $1)`
	if err := p.db.QueryRowContext(ctx, qFolder, folder).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check folder %q: %w", folder, err)
	}
	if !exists {
		return nil, fmt.Errorf("folder %q does not exist", folder)
	}

	const q = `
		SELECT key, name, size, content_type, updated_at
		FROM vault_objects
		WHERE folder = $1
		ORDER BY name
	`
	rows, err := p.db.QueryContext(ctx, q, folder)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", folder, err)
	}
	defer rows.Close()

	out := make([]ObjectInfo, 0)
	for rows.Next() {
		var o ObjectInfo
		if err := rows.Scan(&o.Key, &o.Name, &o.Size, &o.ContentType, &o.LastModified); err != nil {
			return nil, fmt.Errorf("list %q: %w", folder, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %q: %w", folder, err)
	}
	return out, nil
}

func (p *postgresStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	const q = `
		SELECT key, name, size, content_type, updated_at
		FROM vault_objects
		WHERE key = $1
	`
	var o ObjectInfo
	err := p.db.QueryRowContext(ctx, q, key).Scan(&o.Key, &o.Name, &o.Size, &o.ContentType, &o.LastModified)
	if err != nil {
		return ObjectInfo{}, mapSQLError(key, err)
	}
	return o, nil
}

// Put upserts the object. The folder row must exist; the foreign key rejects
// writes into unknown folders.
func (p *postgresStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read %q: %w", key, err)
	}
	folder, name := Split(key)

	const q = `
		INSERT INTO vault_objects (key, folder, name, body, size, content_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (key) DO UPDATE
		SET body = EXCLUDED.body, size = EXCLUDED.size,
		    content_type = EXCLUDED.content_type, updated_at = EXCLUDED.updated_at
		RETURNING key, name, size, content_type, updated_at
	`
	var o ObjectInfo
	err = p.db.QueryRowContext(ctx, q, key, folder, name, body, int64(len(body)), opt.ContentType).
		Scan(&o.Key, &o.Name, &o.Size, &o.ContentType, &o.LastModified)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("put %q: %w", key, err)
	}
	return o, nil
}

func (p *postgresStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	const q = `
		SELECT key, name, size, content_type, updated_at, body
		FROM vault_objects
		WHERE key = $1
	`
	var (
		o    ObjectInfo
		body []byte
	)
	err := p.db.QueryRowContext(ctx, q, key).Scan(&o.Key, &o.Name, &o.Size, &o.ContentType, &o.LastModified, &body)
	if err != nil {
		return nil, ObjectInfo{}, mapSQLError(key, err)
	}
	return io.NopCloser(bytes.NewReader(body)), o, nil
}

func (p *postgresStorage) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM vault_objects WHERE key = $1`
	res, err := p.db.ExecContext(ctx, q, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return nil
}

func mapSQLError(key string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return fmt.Errorf("%s: %w", key, err)
}
