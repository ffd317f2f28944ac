package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func TestConferenceRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		conference *domain.Conference
		mock       func(mock sqlmock.Sqlmock)
		wantID     string
		wantErr    bool
	}{
		{
			name: "success",
			conference: &domain.Conference{
				Name:            "GopherCon",
				OrganizerUserID: "user-1",
				City:            "Denver",
				Topics:          []string{"Go", "Cloud"},
				Month:           7,
				MaxAttendees:    500,
				SeatsAvailable:  500,
				CreatedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO conferences`).
					WithArgs("GopherCon", "user-1", "Denver", pq.Array([]string{"Go", "Cloud"}), 7,
						nil, nil, 500, 500,
						time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("conf-uuid-1"))
			},
			wantID: "conf-uuid-1",
		},
		{
			name: "db error",
			conference: &domain.Conference{
				Name:            "GopherCon",
				OrganizerUserID: "user-1",
				Topics:          []string{"Go"},
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO conferences`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewConferenceRepository(db)
			err = repo.Create(ctx, tt.conference)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.conference.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func conferenceRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "organizer_user_id", "city", "topics", "month",
		"start_date", "end_date", "max_attendees", "seats_available", "created_at", "updated_at",
	})
	for _, id := range ids {
		rows.AddRow(id, "Conf "+id, "user-1", "London", "{Go}", 6,
			nil, nil, 100, 100, time.Now(), time.Now())
	}
	return rows
}

func TestConferenceRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM conferences`).
			WithArgs("conf-1").
			WillReturnRows(conferenceRows("conf-1"))

		repo := NewConferenceRepository(db)
		c, err := repo.GetByID(ctx, "conf-1")
		require.NoError(t, err)
		require.Equal(t, "conf-1", c.ID)
		require.Equal(t, []string{"Go"}, c.Topics)
		require.Nil(t, c.StartDate)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM conferences`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewConferenceRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestConferenceRepository_Query(t *testing.T) {
	ctx := context.Background()
	params := domain.PaginationParams{Page: 1, PageSize: 20}

	t.Run("equality only orders by name", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		plan, err := domain.CompileConferenceFilters([]domain.Filter{
			{Field: "CITY", Op: "EQ", Value: "London"},
		})
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM conferences WHERE city = \$1`).
			WithArgs("London").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`SELECT (.+) FROM conferences WHERE city = \$1 ORDER BY name LIMIT \$2 OFFSET \$3`).
			WithArgs("London", 20, 0).
			WillReturnRows(conferenceRows("conf-1", "conf-2"))

		repo := NewConferenceRepository(db)
		conferences, total, err := repo.Query(ctx, plan, params)
		require.NoError(t, err)
		require.Equal(t, 2, total)
		require.Len(t, conferences, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inequality column sorts before name", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		plan, err := domain.CompileConferenceFilters([]domain.Filter{
			{Field: "CITY", Op: "EQ", Value: "London"},
			{Field: "MAX_ATTENDEES", Op: "GT", Value: "10"},
		})
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM conferences WHERE city = \$1 AND max_attendees > \$2`).
			WithArgs("London", 10).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`ORDER BY max_attendees, name LIMIT \$3 OFFSET \$4`).
			WithArgs("London", 10, 20, 0).
			WillReturnRows(conferenceRows("conf-1"))

		repo := NewConferenceRepository(db)
		_, total, err := repo.Query(ctx, plan, params)
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("topic equality matches array elements", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		plan, err := domain.CompileConferenceFilters([]domain.Filter{
			{Field: "TOPIC", Op: "EQ", Value: "Go"},
		})
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM conferences WHERE \$1 = ANY\(topics\)`).
			WithArgs("Go").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`WHERE \$1 = ANY\(topics\) ORDER BY name`).
			WithArgs("Go", 20, 0).
			WillReturnRows(conferenceRows("conf-1"))

		repo := NewConferenceRepository(db)
		_, _, err = repo.Query(ctx, plan, params)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConferenceRepository_ListNearlySoldOut(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE seats_available > 0 AND seats_available <= \$1`).
		WithArgs(5).
		WillReturnRows(conferenceRows("conf-1"))

	repo := NewConferenceRepository(db)
	conferences, err := repo.ListNearlySoldOut(ctx, 5)
	require.NoError(t, err)
	require.Len(t, conferences, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
