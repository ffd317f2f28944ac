package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend, session_keys_to_attend, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.MainEmail, p.TeeShirtSize,
		pq.Array(p.ConferenceKeysToAttend), pq.Array(p.SessionKeysToAttend),
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend, session_keys_to_attend, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	p := &domain.Profile{}
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.DisplayName, &p.MainEmail, &p.TeeShirtSize,
		pq.Array(&p.ConferenceKeysToAttend), pq.Array(&p.SessionKeysToAttend),
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	result := make(map[string]*domain.Profile)
	if len(userIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend, session_keys_to_attend, created_at, updated_at
		FROM profiles
		WHERE user_id = ANY($1)
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p := &domain.Profile{}
		if err := rows.Scan(
			&p.UserID, &p.DisplayName, &p.MainEmail, &p.TeeShirtSize,
			pq.Array(&p.ConferenceKeysToAttend), pq.Array(&p.SessionKeysToAttend),
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result[p.UserID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, main_email = $3, tee_shirt_size = $4,
		    conference_keys_to_attend = $5, session_keys_to_attend = $6, updated_at = $7
		WHERE user_id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.MainEmail, p.TeeShirtSize,
		pq.Array(p.ConferenceKeysToAttend), pq.Array(p.SessionKeysToAttend),
		p.UpdatedAt,
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
