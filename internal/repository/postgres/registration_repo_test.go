package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func profileListRows(confKeys, sessKeys string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"conference_keys_to_attend", "session_keys_to_attend"}).
		AddRow(confKeys, sessKeys)
}

func TestRegistrationRepository_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success commits both writes", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conference_keys_to_attend, session_keys_to_attend`).
			WithArgs("user-1").
			WillReturnRows(profileListRows("{}", "{}"))
		mock.ExpectQuery(`SELECT seats_available FROM conferences`).
			WithArgs("conf-1").
			WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(2))
		mock.ExpectExec(`UPDATE profiles SET conference_keys_to_attend = array_append`).
			WithArgs("user-1", "conf-1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE conferences SET seats_available = seats_available - 1`).
			WithArgs("conf-1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewRegistrationRepository(db)
		require.NoError(t, repo.Register(ctx, "user-1", "conf-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate registration conflicts and rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conference_keys_to_attend, session_keys_to_attend`).
			WithArgs("user-1").
			WillReturnRows(profileListRows("{conf-1}", "{}"))
		mock.ExpectQuery(`SELECT seats_available FROM conferences`).
			WithArgs("conf-1").
			WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(2))
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		err = repo.Register(ctx, "user-1", "conf-1")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no seats available conflicts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conference_keys_to_attend, session_keys_to_attend`).
			WithArgs("user-1").
			WillReturnRows(profileListRows("{}", "{}"))
		mock.ExpectQuery(`SELECT seats_available FROM conferences`).
			WithArgs("conf-1").
			WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(0))
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		err = repo.Register(ctx, "user-1", "conf-1")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent conference not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conference_keys_to_attend, session_keys_to_attend`).
			WithArgs("user-1").
			WillReturnRows(profileListRows("{}", "{}"))
		mock.ExpectQuery(`SELECT seats_available FROM conferences`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"seats_available"}))
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		err = repo.Register(ctx, "user-1", "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_Unregister(t *testing.T) {
	ctx := context.Background()

	t.Run("registered user removed and seat returned", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conference_keys_to_attend, session_keys_to_attend`).
			WithArgs("user-1").
			WillReturnRows(profileListRows("{conf-1,conf-2}", "{}"))
		mock.ExpectQuery(`SELECT seats_available FROM conferences`).
			WithArgs("conf-1").
			WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(0))
		mock.ExpectExec(`UPDATE profiles SET conference_keys_to_attend = array_remove`).
			WithArgs("user-1", "conf-1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE conferences SET seats_available = seats_available \+ 1`).
			WithArgs("conf-1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewRegistrationRepository(db)
		removed, err := repo.Unregister(ctx, "user-1", "conf-1")
		require.NoError(t, err)
		require.True(t, removed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not registered returns false without error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conference_keys_to_attend, session_keys_to_attend`).
			WithArgs("user-1").
			WillReturnRows(profileListRows("{}", "{}"))
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		removed, err := repo.Unregister(ctx, "user-1", "conf-1")
		require.NoError(t, err)
		require.False(t, removed)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_AddSessionToWishlist(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conference_keys_to_attend, session_keys_to_attend`).
			WithArgs("user-1").
			WillReturnRows(profileListRows("{}", "{}"))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("sess-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`UPDATE profiles SET session_keys_to_attend = array_append`).
			WithArgs("user-1", "sess-1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewRegistrationRepository(db)
		require.NoError(t, repo.AddSessionToWishlist(ctx, "user-1", "sess-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent session not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conference_keys_to_attend, session_keys_to_attend`).
			WithArgs("user-1").
			WillReturnRows(profileListRows("{}", "{}"))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		err = repo.AddSessionToWishlist(ctx, "user-1", "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate wishlist entry conflicts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conference_keys_to_attend, session_keys_to_attend`).
			WithArgs("user-1").
			WillReturnRows(profileListRows("{}", "{sess-1}"))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("sess-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		err = repo.AddSessionToWishlist(ctx, "user-1", "sess-1")
		require.ErrorIs(t, err, domain.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
