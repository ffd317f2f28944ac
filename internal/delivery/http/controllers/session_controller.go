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

// CreateSessionRequest is the request body for POST /conferences/{conferenceID}/sessions.
type CreateSessionRequest struct {
	Name          string     `json:"name"`
	Highlights    string     `json:"highlights"`
	Speakers      []string   `json:"speakers"`
	Duration      int        `json:"duration"`
	TypeOfSession string     `json:"type_of_session"`
	Date          *time.Time `json:"date"`
	StartTime     *time.Time `json:"start_time"`
}

// Validate implements Validator.
func (s CreateSessionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	if s.Date == nil {
		errs = append(errs, "date is required")
	}
	if s.StartTime == nil {
		errs = append(errs, "start_time is required")
	}
	if s.Duration < 0 {
		errs = append(errs, "duration cannot be negative")
	}
	return errs
}

// UpdateSessionRequest is the request body for PUT /sessions/{sessionID}.
// All fields are optional.
type UpdateSessionRequest struct {
	Name          *string    `json:"name"`
	Highlights    *string    `json:"highlights"`
	Speakers      []string   `json:"speakers"`
	Duration      *int       `json:"duration"`
	TypeOfSession *string    `json:"type_of_session"`
	Date          *time.Time `json:"date"`
	StartTime     *time.Time `json:"start_time"`
}

// Validate implements Validator.
func (u UpdateSessionRequest) Validate() []string {
	var errs []string
	if u.Duration != nil && *u.Duration < 0 {
		errs = append(errs, "duration cannot be negative")
	}
	return errs
}

// FeaturedSpeakerResponse is the response body for GET /conferences/{conferenceID}/featured-speaker.
type FeaturedSpeakerResponse struct {
	Speaker string `json:"speaker"`
}

// SessionController handles session CRUD and speaker queries.
type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService) *SessionController {
	return &SessionController{Logger: logger, Service: svc}
}

// CreateSession godoc
// @Summary Create a session
// @Description Add a session to a conference; organizer only. The session date must fall within the conference dates when both are set. May promote a speaker to featured.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Param body body CreateSessionRequest true "Session data"
// @Success 201 {object} helpers.APIResponse "data contains the created session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
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
	var req CreateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	created, err := c.Service.Create(r.Context(), userID, conferenceID, &domain.Session{
		Name:          req.Name,
		Highlights:    req.Highlights,
		Speakers:      req.Speakers,
		Duration:      req.Duration,
		TypeOfSession: req.TypeOfSession,
		Date:          *req.Date,
		StartTime:     *req.StartTime,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// UpdateSession godoc
// @Summary Update a session
// @Description Partial update; organizer of the owning conference only.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param body body UpdateSessionRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated session"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions/{sessionID} [put]
func (c *SessionController) UpdateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID")
		return
	}
	var req UpdateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	updated, err := c.Service.Update(r.Context(), userID, sessionID, domain.SessionUpdate{
		Name:          req.Name,
		Highlights:    req.Highlights,
		Speakers:      req.Speakers,
		Duration:      req.Duration,
		TypeOfSession: req.TypeOfSession,
		Date:          req.Date,
		StartTime:     req.StartTime,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteSession godoc
// @Summary Delete a session
// @Description Organizer of the owning conference only. Wishlist entries pointing at the session become inert.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions/{sessionID} [delete]
func (c *SessionController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID")
		return
	}
	if err := c.Service.Delete(r.Context(), userID, sessionID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"deleted": sessionID})
}

// ListConferenceSessions godoc
// @Summary List a conference's sessions
// @Description Chronological by date and start time.
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data contains the sessions"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID}/sessions [get]
func (c *SessionController) ListConferenceSessions(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	sessions, err := c.Service.ListByConference(r.Context(), conferenceID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// ListConferenceSessionsByType godoc
// @Summary List a conference's sessions of a given type
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Param type path string true "Session type, e.g. lecture or workshop"
// @Success 200 {object} helpers.APIResponse "data contains the sessions"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID}/sessions/type/{type} [get]
func (c *SessionController) ListConferenceSessionsByType(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	typeOfSession := r.PathValue("type")
	if conferenceID == "" || typeOfSession == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conferenceID or type")
		return
	}
	sessions, err := c.Service.ListByConferenceAndType(r.Context(), conferenceID, typeOfSession)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// ListConferenceSessionsBySpeaker godoc
// @Summary List a conference's sessions by speaker
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Param speaker path string true "Speaker name"
// @Success 200 {object} helpers.APIResponse "data contains the sessions"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID}/sessions/speaker/{speaker} [get]
func (c *SessionController) ListConferenceSessionsBySpeaker(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	speaker := r.PathValue("speaker")
	if conferenceID == "" || speaker == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conferenceID or speaker")
		return
	}
	sessions, err := c.Service.ListByConferenceAndSpeaker(r.Context(), conferenceID, speaker)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// ListSessionsBySpeaker godoc
// @Summary List sessions by speaker across conferences
// @Tags sessions
// @Produce json
// @Param speaker path string true "Speaker name"
// @Success 200 {object} helpers.APIResponse "data contains the sessions"
// @Router /sessions/speaker/{speaker} [get]
func (c *SessionController) ListSessionsBySpeaker(w http.ResponseWriter, r *http.Request) {
	speaker := r.PathValue("speaker")
	if speaker == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing speaker")
		return
	}
	sessions, err := c.Service.ListBySpeaker(r.Context(), speaker)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// GetFeaturedSpeaker godoc
// @Summary Get a conference's featured speaker
// @Description Returns the cached featured speaker name, or an empty string when none. The conference id is not validated.
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data contains the speaker name"
// @Router /conferences/{conferenceID}/featured-speaker [get]
func (c *SessionController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	speaker, err := c.Service.GetFeaturedSpeaker(r.Context(), conferenceID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, FeaturedSpeakerResponse{Speaker: speaker})
}
