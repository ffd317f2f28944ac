package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// stubConferenceService returns canned values for controller tests.
type stubConferenceService struct {
	conference   *domain.Conference
	withOrg      *domain.ConferenceWithOrganizer
	announcement string
	err          error
}

func (s *stubConferenceService) Create(ctx context.Context, callerID string, c *domain.Conference) (*domain.Conference, error) {
	return s.conference, s.err
}

func (s *stubConferenceService) Update(ctx context.Context, callerID, conferenceID string, u domain.ConferenceUpdate) (*domain.Conference, error) {
	return s.conference, s.err
}

func (s *stubConferenceService) Get(ctx context.Context, conferenceID string) (*domain.ConferenceWithOrganizer, error) {
	return s.withOrg, s.err
}

func (s *stubConferenceService) ListCreated(ctx context.Context, callerID string) ([]*domain.ConferenceWithOrganizer, error) {
	return []*domain.ConferenceWithOrganizer{s.withOrg}, s.err
}

func (s *stubConferenceService) Query(ctx context.Context, filters []domain.Filter, params domain.PaginationParams) ([]*domain.ConferenceWithOrganizer, int, error) {
	return []*domain.ConferenceWithOrganizer{s.withOrg}, 1, s.err
}

func (s *stubConferenceService) GetAnnouncement(ctx context.Context) (string, error) {
	return s.announcement, s.err
}

func (s *stubConferenceService) RefreshAnnouncement(ctx context.Context) (string, error) {
	return s.announcement, s.err
}

func testController(svc domain.ConferenceService) *ConferenceController {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewConferenceController(logger, svc)
}

func authedRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	return envelope
}

func TestConferenceController_CreateConference(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubConferenceService{conference: &domain.Conference{ID: "conf-1", Name: "GopherCon"}}
		c := testController(svc)

		rr := httptest.NewRecorder()
		c.CreateConference(rr, authedRequest(http.MethodPost, "/conferences", `{"name":"GopherCon"}`))

		require.Equal(t, http.StatusCreated, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Nil(t, envelope.Error)
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		c := testController(&stubConferenceService{})

		rr := httptest.NewRecorder()
		c.CreateConference(rr, authedRequest(http.MethodPost, "/conferences", `{"city":"London"}`))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeBadRequest, envelope.Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		c := testController(&stubConferenceService{})

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/conferences", strings.NewReader(`{"name":"X"}`))
		c.CreateConference(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestConferenceController_error_mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, helpers.ErrCodeForbidden},
		{"conflict", domain.ErrConflict, http.StatusConflict, helpers.ErrCodeConflict},
		{"invalid filter", domain.ErrInvalidFilter, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"internal", assert.AnError, http.StatusInternalServerError, helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testController(&stubConferenceService{err: tt.err})

			rr := httptest.NewRecorder()
			req := authedRequest(http.MethodPut, "/conferences/conf-1", `{"name":"New"}`)
			req.SetPathValue("conferenceID", "conf-1")
			c.UpdateConference(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestConferenceController_QueryConferences(t *testing.T) {
	svc := &stubConferenceService{
		withOrg: &domain.ConferenceWithOrganizer{
			Conference:           &domain.Conference{ID: "conf-1", Name: "GopherCon"},
			OrganizerDisplayName: "Ada",
		},
	}
	c := testController(svc)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/conferences/query?page=2&page_size=5",
		strings.NewReader(`{"filters":[{"field":"CITY","operator":"EQ","value":"London"}]}`))
	c.QueryConferences(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var envelope struct {
		Data ConferenceListResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Len(t, envelope.Data.Conferences, 1)
	assert.Equal(t, "Ada", envelope.Data.Conferences[0].OrganizerDisplayName)
	assert.Equal(t, 2, envelope.Data.Pagination.Page)
	assert.Equal(t, 5, envelope.Data.Pagination.PageSize)
	assert.Equal(t, 1, envelope.Data.Pagination.Total)
}

func TestConferenceController_GetAnnouncement(t *testing.T) {
	c := testController(&stubConferenceService{announcement: "Last chance!"})

	rr := httptest.NewRecorder()
	c.GetAnnouncement(rr, httptest.NewRequest(http.MethodGet, "/announcement", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope struct {
		Data AnnouncementResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	assert.Equal(t, "Last chance!", envelope.Data.Announcement)
}
