package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/meetuphub/internal/domain/file"
	"github.com/geocoder89/meetuphub/internal/domain/meetup"
	"github.com/geocoder89/meetuphub/internal/domain/user"
	"github.com/geocoder89/meetuphub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const meetupColumns = `m.id, m.user_id, m.title, m.description, m.location, m.date, m.file_id, m.created_at, m.updated_at`

type MeetupsRepo struct {
	pool *pgxpool.Pool
	observer
}

func NewMeetupsRepo(pool *pgxpool.Pool, prom *observability.Prom) *MeetupsRepo {
	return &MeetupsRepo{
		pool:     pool,
		observer: observer{prom: prom},
	}
}

func scanMeetup(row pgx.Row, extra ...any) (meetup.Meetup, error) {
	var m meetup.Meetup

	dest := []any{&m.ID, &m.UserID, &m.Title, &m.Description, &m.Location, &m.Date, &m.FileID, &m.CreatedAt, &m.UpdatedAt}
	dest = append(dest, extra...)

	err := row.Scan(dest...)

	return m, err
}

func (r *MeetupsRepo) Create(ctx context.Context, m meetup.Meetup) (meetup.Meetup, error) {
	err := r.observe("meetups.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO meetups (user_id, title, description, location, date, file_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			m.UserID, m.Title, m.Description, m.Location, m.Date, m.FileID, m.CreatedAt, m.UpdatedAt,
		).Scan(&m.ID)
	})

	if err != nil {
		return meetup.Meetup{}, err
	}

	return m, nil
}

func (r *MeetupsRepo) GetByID(ctx context.Context, id int64) (meetup.Meetup, error) {
	var m meetup.Meetup

	err := r.observe("meetups.get_by_id", func() error {
		var err error
		m, err = scanMeetup(r.pool.QueryRow(ctx, `SELECT `+meetupColumns+` FROM meetups m WHERE m.id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return meetup.Meetup{}, meetup.ErrNotFound
		}
		return meetup.Meetup{}, err
	}

	return m, nil
}

func (r *MeetupsRepo) Update(ctx context.Context, in meetup.Meetup) (meetup.Meetup, error) {
	var m meetup.Meetup

	err := r.observe("meetups.update", func() error {
		var err error
		m, err = scanMeetup(r.pool.QueryRow(
			ctx,
			`UPDATE meetups m
				SET title = $2,
						description = $3,
						location = $4,
						date = $5,
						file_id = $6,
						updated_at = $7
			WHERE m.id = $1
			RETURNING `+meetupColumns,
			in.ID,
			in.Title,
			in.Description,
			in.Location,
			in.Date,
			in.FileID,
			in.UpdatedAt,
		))
		return err
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return meetup.Meetup{}, meetup.ErrNotFound
		}
		return meetup.Meetup{}, err
	}

	return m, nil
}

func (r *MeetupsRepo) Delete(ctx context.Context, id int64) error {
	var affected int64

	err := r.observe("meetups.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM meetups WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return meetup.ErrNotFound
	}

	return nil
}

func (r *MeetupsRepo) List(ctx context.Context, filter meetup.ListMeetupsFilter) ([]meetup.Meetup, int, error) {
	where, args := listConditions(filter)

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	argsPosition := len(args) + 1

	// stable ordering for pagination
	query := `SELECT ` + meetupColumns + `,
		u.id,
		u.name,
		u.email,
		COUNT(*) OVER() AS total
	FROM meetups m
	JOIN users u ON u.id = m.user_id` + where +
		fmt.Sprintf(" ORDER BY m.date ASC, m.id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	pageArgs := append(append([]any{}, args...), filter.Limit, offset)

	output := make([]meetup.Meetup, 0, filter.Limit)
	total := 0

	err := r.observe("meetups.list", func() error {
		rows, err := r.pool.Query(ctx, query, pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var organizer user.Summary
			var t int

			m, err := scanMeetup(rows, &organizer.ID, &organizer.Name, &organizer.Email, &t)
			if err != nil {
				return err
			}

			m.Organizer = &organizer
			total = t
			output = append(output, m)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	// the window count is absent when the page is past the end
	if len(output) == 0 && offset > 0 {
		err = r.observe("meetups.count", func() error {
			return r.pool.QueryRow(ctx,
				`SELECT COUNT(*) FROM meetups m JOIN users u ON u.id = m.user_id`+where,
				args...,
			).Scan(&total)
		})
		if err != nil {
			return nil, 0, err
		}
	}

	return output, total, nil
}

func listConditions(filter meetup.ListMeetupsFilter) (string, []any) {
	var conds []string
	var args []any

	argsPosition := 1

	if filter.From != nil {
		conds = append(conds, fmt.Sprintf("m.date >= $%d", argsPosition))
		args = append(args, *filter.From)
		argsPosition++
	}

	if filter.To != nil {
		conds = append(conds, fmt.Sprintf("m.date <= $%d", argsPosition))
		args = append(args, *filter.To)
	}

	if len(conds) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *MeetupsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]meetup.Meetup, error) {
	output := make([]meetup.Meetup, 0)

	err := r.observe("meetups.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+meetupColumns+`, f.id, f.path
			FROM meetups m
			LEFT JOIN files f ON f.id = m.file_id
			WHERE m.user_id = $1
			ORDER BY m.date ASC, m.id ASC`,
			ownerID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var bannerID *int64
			var bannerPath *string

			m, err := scanMeetup(rows, &bannerID, &bannerPath)
			if err != nil {
				return err
			}

			if bannerID != nil && bannerPath != nil {
				m.Banner = &file.Banner{ID: *bannerID, Path: *bannerPath}
			}
			output = append(output, m)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}
