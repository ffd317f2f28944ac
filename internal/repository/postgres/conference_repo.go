package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const conferenceColumns = "id, name, organizer_user_id, city, topics, month, start_date, end_date, max_attendees, seats_available, created_at, updated_at"

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{DB: db}
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (name, organizer_user_id, city, topics, month, start_date, end_date, max_attendees, seats_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.Name, c.OrganizerUserID, c.City, pq.Array(c.Topics), c.Month,
		c.StartDate, c.EndDate, c.MaxAttendees, c.SeatsAvailable,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func scanConference(row interface{ Scan(...any) error }) (*domain.Conference, error) {
	c := &domain.Conference{}
	var startNull, endNull sql.NullTime
	err := row.Scan(
		&c.ID, &c.Name, &c.OrganizerUserID, &c.City, pq.Array(&c.Topics), &c.Month,
		&startNull, &endNull, &c.MaxAttendees, &c.SeatsAvailable,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if startNull.Valid {
		c.StartDate = &startNull.Time
	}
	if endNull.Valid {
		c.EndDate = &endNull.Time
	}
	return c, nil
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE id = $1
	`
	c, err := scanConference(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Conference, error) {
	result := make(map[string]*domain.Conference)
	if len(ids) == 0 {
		return result, nil
	}
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE id = ANY($1)
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		result[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE organizer_user_id = $1
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query, organizerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conferences := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		conferences = append(conferences, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return conferences, nil
}

func (r *conferenceRepository) Update(ctx context.Context, c *domain.Conference) error {
	query := `
		UPDATE conferences
		SET name = $2, city = $3, topics = $4, month = $5, start_date = $6, end_date = $7,
		    max_attendees = $8, seats_available = $9, updated_at = $10
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		c.ID, c.Name, c.City, pq.Array(c.Topics), c.Month, c.StartDate, c.EndDate,
		c.MaxAttendees, c.SeatsAvailable, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// planPredicates renders a compiled plan's filters as SQL predicates with
// positional args. topics is a text[] column, so its predicates match against
// elements rather than the array value.
func planPredicates(plan *domain.ConferenceQueryPlan) (string, []any) {
	var predicates []string
	var args []any
	for _, f := range plan.Filters {
		args = append(args, f.Value)
		n := len(args)
		op := f.Op
		if op == "!=" {
			op = "<>"
		}
		if f.Column == "topics" {
			if op == "=" {
				predicates = append(predicates, fmt.Sprintf("$%d = ANY(topics)", n))
			} else {
				predicates = append(predicates, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(topics) AS topic WHERE topic %s $%d)", op, n))
			}
			continue
		}
		predicates = append(predicates, fmt.Sprintf("%s %s $%d", f.Column, op, n))
	}
	if len(predicates) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(predicates, " AND "), args
}

func (r *conferenceRepository) Query(ctx context.Context, plan *domain.ConferenceQueryPlan, params domain.PaginationParams) ([]*domain.Conference, int, error) {
	where, args := planPredicates(plan)

	countQuery := "SELECT COUNT(*) FROM conferences " + where
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM conferences %s ORDER BY %s LIMIT $%d OFFSET $%d",
		conferenceColumns, where, strings.Join(plan.OrderBy, ", "),
		len(args)+1, len(args)+2,
	)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	conferences := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, 0, err
		}
		conferences = append(conferences, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return conferences, total, nil
}

func (r *conferenceRepository) ListNearlySoldOut(ctx context.Context, threshold int) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE seats_available > 0 AND seats_available <= $1
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conferences := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		conferences = append(conferences, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return conferences, nil
}
