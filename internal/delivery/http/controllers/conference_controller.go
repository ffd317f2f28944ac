package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// CreateConferenceRequest is the request body for POST /conferences.
type CreateConferenceRequest struct {
	Name         string     `json:"name"`
	City         string     `json:"city"`
	Topics       []string   `json:"topics"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	MaxAttendees int        `json:"max_attendees"`
}

// Validate implements Validator.
func (c CreateConferenceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.MaxAttendees < 0 {
		errs = append(errs, "max_attendees cannot be negative")
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		errs = append(errs, "end_date cannot be before start_date")
	}
	return errs
}

// UpdateConferenceRequest is the request body for PUT /conferences/{conferenceID}.
// All fields are optional.
type UpdateConferenceRequest struct {
	Name         *string    `json:"name"`
	City         *string    `json:"city"`
	Topics       []string   `json:"topics"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	MaxAttendees *int       `json:"max_attendees"`
}

// Validate implements Validator.
func (u UpdateConferenceRequest) Validate() []string {
	var errs []string
	if u.MaxAttendees != nil && *u.MaxAttendees < 0 {
		errs = append(errs, "max_attendees cannot be negative")
	}
	return errs
}

// QueryConferencesRequest is the request body for POST /conferences/query.
type QueryConferencesRequest struct {
	Filters []domain.Filter `json:"filters"`
}

// ConferenceListResponse is the paginated response body for POST /conferences/query.
type ConferenceListResponse struct {
	Conferences []*domain.ConferenceWithOrganizer `json:"conferences"`
	Pagination  helpers.PaginationMeta            `json:"pagination"`
}

// AnnouncementResponse is the response body for the announcement endpoints.
type AnnouncementResponse struct {
	Announcement string `json:"announcement"`
}

// ConferenceController handles conference CRUD, queries, and the announcement.
type ConferenceController struct {
	Logger  *slog.Logger
	Service domain.ConferenceService
}

func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService) *ConferenceController {
	return &ConferenceController{Logger: logger, Service: svc}
}

// CreateConference godoc
// @Summary Create a conference
// @Description Create a conference owned by the caller. Missing city, topics, and max_attendees get defaults. Sends a confirmation email to the organizer.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateConferenceRequest true "Conference data"
// @Success 201 {object} helpers.APIResponse "data contains the created conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	created, err := c.Service.Create(r.Context(), userID, &domain.Conference{
		Name:         req.Name,
		City:         req.City,
		Topics:       req.Topics,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Partial update; organizer only. A start date change re-derives the month, a capacity change re-syncs available seats.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Param body body UpdateConferenceRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated conference"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID} [put]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	var req UpdateConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	updated, err := c.Service.Update(r.Context(), userID, conferenceID, domain.ConferenceUpdate{
		Name:         req.Name,
		City:         req.City,
		Topics:       req.Topics,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// GetConference godoc
// @Summary Get a conference
// @Description Returns the conference with its organizer's display name.
// @Tags conferences
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data contains the conference"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	conference, err := c.Service.Get(r.Context(), conferenceID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// ListCreatedConferences godoc
// @Summary List conferences created by the caller
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the caller's conferences"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences/created [get]
func (c *ConferenceController) ListCreatedConferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	conferences, err := c.Service.ListCreated(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// QueryConferences godoc
// @Summary Query conferences
// @Description Filtered, paginated conference search. Filter fields: CITY, TOPIC, MONTH, MAX_ATTENDEES; operators: EQ, GT, GTEQ, LT, LTEQ, NE. At most one field may use an inequality operator.
// @Tags conferences
// @Accept json
// @Produce json
// @Param body body QueryConferencesRequest true "Filters"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains conferences and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid filter)"
// @Router /conferences/query [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req QueryConferencesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	params := helpers.ParsePagination(r)
	conferences, total, err := c.Service.Query(r.Context(), req.Filters, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ConferenceListResponse{
		Conferences: conferences,
		Pagination:  helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetAnnouncement godoc
// @Summary Get the sold-out announcement
// @Description Returns the cached nearly-sold-out announcement, or an empty string when none.
// @Tags announcement
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the announcement"
// @Router /announcement [get]
func (c *ConferenceController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := c.Service.GetAnnouncement(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AnnouncementResponse{Announcement: announcement})
}

// RefreshAnnouncement godoc
// @Summary Recompute the sold-out announcement
// @Description Recomputes the announcement from current seat counts and stores it.
// @Tags announcement
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the new announcement"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /announcement/refresh [post]
func (c *ConferenceController) RefreshAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := c.Service.RefreshAnnouncement(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AnnouncementResponse{Announcement: announcement})
}
