package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ayushbhandari/campus-events/internal/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	mux  *chi.Mux
	repo *events.Repository
}

func NewRouter(repo *events.Repository) http.Handler {
	r := &Router{
		mux:  chi.NewRouter(),
		repo: repo,
	}

	r.mux.Use(middleware.RequestID)
	r.mux.Use(middleware.Recoverer)
	// Wide open on purpose: this backend is meant to sit behind arbitrary
	// frontend origins during development.
	r.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.mux.Use(requestMetrics)

	r.routes()
	return r.mux
}

func (r *Router) routes() {
	r.mux.Route("/api", func(api chi.Router) {
		api.Post("/register", r.handleRegisterUser)
		api.Get("/events", r.handleListEvents)
		api.Post("/register-event/{event_id}", r.handleRegisterForEvent)
		api.Get("/my-events/{user_id}", r.handleMyEvents)
	})

	r.mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Backend is running successfully"))
	})
	r.mux.Handle("/metrics", promhttp.Handler())
}

type registerUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type confirmationResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func (r *Router) handleRegisterUser(w http.ResponseWriter, req *http.Request) {
	var in registerUserRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// Absent fields come through as empty strings and are stored as-is.
	u, err := r.repo.CreateUser(req.Context(), in.Username, in.Email, in.Phone, in.Password)
	if err != nil {
		if errors.Is(err, events.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "Username or Email already exists")
			return
		}
		serverError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmationResponse{
		Message: "User registered successfully",
		ID:      u.ID.Hex(),
	})
}

type eventResponse struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (r *Router) handleListEvents(w http.ResponseWriter, req *http.Request) {
	eventsList, err := r.repo.ListEvents(req.Context())
	if err != nil {
		serverError(w, req, err)
		return
	}

	out := make([]eventResponse, 0, len(eventsList))
	for _, e := range eventsList {
		out = append(out, eventResponse{
			ID:       e.ID.Hex(),
			Name:     e.Name,
			Category: e.Category,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type registerEventRequest struct {
	UserID string `json:"user_id"`
}

func (r *Router) handleRegisterForEvent(w http.ResponseWriter, req *http.Request) {
	// The event id stays a raw string end to end; it is not resolved
	// against the events collection.
	eventID := chi.URLParam(req, "event_id")

	var in registerEventRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	reg, err := r.repo.CreateRegistration(req.Context(), in.UserID, eventID)
	if err != nil {
		if errors.Is(err, events.ErrAlreadyRegistered) {
			writeError(w, http.StatusBadRequest, "Already registered for this event")
			return
		}
		serverError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmationResponse{
		Message: "Event registered successfully",
		ID:      reg.ID.Hex(),
	})
}

type registrationResponse struct {
	ID           string              `json:"_id"`
	User         string              `json:"user"`
	Event        events.EventSummary `json:"event"`
	RegisteredAt time.Time           `json:"registeredAt"`
}

func (r *Router) handleMyEvents(w http.ResponseWriter, req *http.Request) {
	userID := chi.URLParam(req, "user_id")

	regs, err := r.repo.ListUserRegistrations(req.Context(), userID)
	if err != nil {
		serverError(w, req, err)
		return
	}

	out := make([]registrationResponse, 0, len(regs))
	for _, reg := range regs {
		out = append(out, registrationResponse{
			ID:           reg.ID.Hex(),
			User:         reg.User,
			Event:        reg.Event,
			RegisteredAt: reg.RegisteredAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// serverError logs the underlying cause and answers with an opaque 500;
// no diagnostic detail goes back to the caller.
func serverError(w http.ResponseWriter, req *http.Request, err error) {
	slog.Error("internal error", "method", req.Method, "path", req.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
