package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const sessionColumns = "id, conference_id, name, highlights, speakers, duration, type_of_session, date, start_time, created_at, updated_at"

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{DB: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (conference_id, name, highlights, speakers, duration, type_of_session, date, start_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.ConferenceID, s.Name, s.Highlights, pq.Array(s.Speakers), s.Duration,
		s.TypeOfSession, s.Date, s.StartTime, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
}

func scanSession(row interface{ Scan(...any) error }) (*domain.Session, error) {
	s := &domain.Session{}
	err := row.Scan(
		&s.ID, &s.ConferenceID, &s.Name, &s.Highlights, pq.Array(&s.Speakers),
		&s.Duration, &s.TypeOfSession, &s.Date, &s.StartTime, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
	`
	s, err := scanSession(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Session, error) {
	result := make(map[string]*domain.Session)
	if len(ids) == 0 {
		return result, nil
	}
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = ANY($1)
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *sessionRepository) Update(ctx context.Context, s *domain.Session) error {
	query := `
		UPDATE sessions
		SET name = $2, highlights = $3, speakers = $4, duration = $5,
		    type_of_session = $6, date = $7, start_time = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		s.ID, s.Name, s.Highlights, pq.Array(s.Speakers), s.Duration,
		s.TypeOfSession, s.Date, s.StartTime, s.UpdatedAt,
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

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
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

func (r *sessionRepository) listQuery(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1
		ORDER BY date, start_time
	`
	return r.listQuery(ctx, query, conferenceID)
}

func (r *sessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1 AND type_of_session = $2
		ORDER BY date, start_time
	`
	return r.listQuery(ctx, query, conferenceID, typeOfSession)
}

func (r *sessionRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1 AND $2 = ANY(speakers)
		ORDER BY date, start_time
	`
	return r.listQuery(ctx, query, conferenceID, speaker)
}

func (r *sessionRepository) ListBySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE $1 = ANY(speakers)
		ORDER BY date, start_time
	`
	return r.listQuery(ctx, query, speaker)
}

func (r *sessionRepository) CountByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM sessions
		WHERE conference_id = $1 AND $2 = ANY(speakers)
	`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, conferenceID, speaker).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
