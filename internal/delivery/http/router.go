package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// Controllers bundles the controllers wired into the router.
type Controllers struct {
	Auth       *controllers.AuthController
	Profile    *controllers.ProfileController
	Conference *controllers.ConferenceController
	Session    *controllers.SessionController
	Attendee   *controllers.AttendeeController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Profile
	mux.HandleFunc("GET /profile", auth(c.Profile.GetProfile))
	mux.HandleFunc("POST /profile", auth(c.Profile.SaveProfile))

	// Conferences. Literal segments are registered before the {conferenceID}
	// wildcard so /conferences/created and /conferences/query match first.
	mux.HandleFunc("POST /conferences", auth(c.Conference.CreateConference))
	mux.HandleFunc("GET /conferences/created", auth(c.Conference.ListCreatedConferences))
	mux.HandleFunc("POST /conferences/query", c.Conference.QueryConferences)
	mux.HandleFunc("GET /conferences/attending", auth(c.Attendee.ListAttending))
	mux.HandleFunc("GET /conferences/{conferenceID}", c.Conference.GetConference)
	mux.HandleFunc("PUT /conferences/{conferenceID}", auth(c.Conference.UpdateConference))

	// Sessions
	mux.HandleFunc("POST /conferences/{conferenceID}/sessions", auth(c.Session.CreateSession))
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions", c.Session.ListConferenceSessions)
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions/type/{type}", c.Session.ListConferenceSessionsByType)
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions/speaker/{speaker}", c.Session.ListConferenceSessionsBySpeaker)
	mux.HandleFunc("GET /conferences/{conferenceID}/featured-speaker", c.Session.GetFeaturedSpeaker)
	mux.HandleFunc("GET /sessions/speaker/{speaker}", c.Session.ListSessionsBySpeaker)
	mux.HandleFunc("PUT /sessions/{sessionID}", auth(c.Session.UpdateSession))
	mux.HandleFunc("DELETE /sessions/{sessionID}", auth(c.Session.DeleteSession))

	// Registration and wishlist
	mux.HandleFunc("POST /conferences/{conferenceID}/registration", auth(c.Attendee.Register))
	mux.HandleFunc("DELETE /conferences/{conferenceID}/registration", auth(c.Attendee.Unregister))
	mux.HandleFunc("GET /conferences/{conferenceID}/wishlist", auth(c.Attendee.ListWishlist))
	mux.HandleFunc("POST /wishlist/{sessionID}", auth(c.Attendee.AddToWishlist))

	// Announcement
	mux.HandleFunc("GET /announcement", c.Conference.GetAnnouncement)
	mux.HandleFunc("POST /announcement/refresh", auth(c.Conference.RefreshAnnouncement))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
