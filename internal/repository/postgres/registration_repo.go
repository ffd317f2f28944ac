package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

// NewRegistrationRepository returns the transactional registration/wishlist
// store. Every mutation locks the touched aggregate rows in the same order,
// profile first and then conference, so concurrent registrations serialize
// instead of deadlocking, and commits both writes or neither.
func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

// lockProfileLists reads and locks the profile's attendance and wishlist
// lists within the transaction.
func lockProfileLists(ctx context.Context, tx *sql.Tx, userID string) (confKeys, sessKeys []string, err error) {
	query := `
		SELECT conference_keys_to_attend, session_keys_to_attend
		FROM profiles
		WHERE user_id = $1
		FOR UPDATE
	`
	err = tx.QueryRowContext(ctx, query, userID).Scan(pq.Array(&confKeys), pq.Array(&sessKeys))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: no profile for user %s", domain.ErrNotFound, userID)
		}
		return nil, nil, err
	}
	return confKeys, sessKeys, nil
}

func (r *registrationRepository) Register(ctx context.Context, userID, conferenceID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registration tx: %w", err)
	}
	defer tx.Rollback()

	confKeys, _, err := lockProfileLists(ctx, tx, userID)
	if err != nil {
		return err
	}

	var seats int
	err = tx.QueryRowContext(ctx, `SELECT seats_available FROM conferences WHERE id = $1 FOR UPDATE`, conferenceID).Scan(&seats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return err
	}

	for _, key := range confKeys {
		if key == conferenceID {
			return fmt.Errorf("%w: you have already registered for this conference", domain.ErrConflict)
		}
	}
	if seats <= 0 {
		return fmt.Errorf("%w: there are no seats available", domain.ErrConflict)
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctx,
		`UPDATE profiles SET conference_keys_to_attend = array_append(conference_keys_to_attend, $2), updated_at = $3 WHERE user_id = $1`,
		userID, conferenceID, now,
	); err != nil {
		return fmt.Errorf("append registration: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE conferences SET seats_available = seats_available - 1, updated_at = $2 WHERE id = $1`,
		conferenceID, now,
	); err != nil {
		return fmt.Errorf("decrement seats: %w", err)
	}

	return tx.Commit()
}

func (r *registrationRepository) Unregister(ctx context.Context, userID, conferenceID string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin unregistration tx: %w", err)
	}
	defer tx.Rollback()

	confKeys, _, err := lockProfileLists(ctx, tx, userID)
	if err != nil {
		return false, err
	}

	registered := false
	for _, key := range confKeys {
		if key == conferenceID {
			registered = true
			break
		}
	}
	// Not being registered is an idempotent outcome, not a failure.
	if !registered {
		return false, nil
	}

	var seats int
	err = tx.QueryRowContext(ctx, `SELECT seats_available FROM conferences WHERE id = $1 FOR UPDATE`, conferenceID).Scan(&seats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return false, err
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctx,
		`UPDATE profiles SET conference_keys_to_attend = array_remove(conference_keys_to_attend, $2), updated_at = $3 WHERE user_id = $1`,
		userID, conferenceID, now,
	); err != nil {
		return false, fmt.Errorf("remove registration: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE conferences SET seats_available = seats_available + 1, updated_at = $2 WHERE id = $1`,
		conferenceID, now,
	); err != nil {
		return false, fmt.Errorf("increment seats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *registrationRepository) AddSessionToWishlist(ctx context.Context, userID, sessionID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin wishlist tx: %w", err)
	}
	defer tx.Rollback()

	_, sessKeys, err := lockProfileLists(ctx, tx, userID)
	if err != nil {
		return err
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, sessionID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, sessionID)
	}

	for _, key := range sessKeys {
		if key == sessionID {
			return fmt.Errorf("%w: you have already added this session to your wishlist", domain.ErrConflict)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE profiles SET session_keys_to_attend = array_append(session_keys_to_attend, $2), updated_at = $3 WHERE user_id = $1`,
		userID, sessionID, time.Now(),
	); err != nil {
		return fmt.Errorf("append wishlist entry: %w", err)
	}

	return tx.Commit()
}
