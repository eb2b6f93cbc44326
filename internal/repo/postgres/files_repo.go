package postgres

import (
	"context"

	"github.com/geocoder89/meetuphub/internal/domain/file"
	"github.com/geocoder89/meetuphub/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FilesRepo struct {
	pool *pgxpool.Pool
	observer
}

func NewFilesRepo(pool *pgxpool.Pool, prom *observability.Prom) *FilesRepo {
	return &FilesRepo{pool: pool, observer: observer{prom: prom}}
}

func (r *FilesRepo) Create(ctx context.Context, name, path string) (file.File, error) {
	var f file.File

	err := r.observe("files.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO files (name, path)
			VALUES ($1, $2)
			RETURNING id, name, path, created_at, updated_at`,
			name, path,
		).Scan(&f.ID, &f.Name, &f.Path, &f.CreatedAt, &f.UpdatedAt)
	})

	if err != nil {
		return file.File{}, err
	}

	return f, nil
}
