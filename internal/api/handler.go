package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/user/hx-chapters/internal/bmi"
	"github.com/user/hx-chapters/internal/directory"
	"github.com/user/hx-chapters/internal/profile"
	"github.com/user/hx-chapters/internal/validate"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fragment renders a template and logs a render failure. The caller has
// nothing useful left to send at that point.
func (s *Server) fragment(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := render(w, status, name, data); err != nil {
		s.logger.Error().Err(err).
			Str("template", name).
			Str("request_id", GetRequestID(r.Context())).
			Msg("failed to render fragment")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := s.profiles.Get(profile.Default.ID)
	s.fragment(w, r, http.StatusOK, "index", map[string]any{
		"UsersLimit": s.config.Users.DefaultLimit,
		"Prompt":     directory.SearchResult{Outcome: directory.OutcomePrompt},
		"Profile":    p,
	})
}

func (s *Server) usersHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = s.config.Users.DefaultLimit
	}

	// Artificial latency so the front end can show its loading indicator.
	if d := s.config.Users.Delay; d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.Upstream.Timeout)
	defer cancel()

	users, err := s.source.FetchUsers(ctx, limit)
	if err != nil {
		s.logger.Warn().Err(err).Int("limit", limit).Msg("failed to list users")
		s.fragment(w, r, http.StatusOK, "alert", alertData{
			Variant: "danger",
			Message: "Unable to load users. Please try again later.",
		})
		return
	}
	s.fragment(w, r, http.StatusOK, "users", users)
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.searchFailed(w, r, fmt.Errorf("panic: %v", rec))
		}
	}()

	result := s.fetcher.Search(r.Context(), r.PostFormValue("search"))
	if result.Status != "" {
		w.Header().Set("X-Cache", string(result.Status))
	}
	if err := render(w, http.StatusOK, "search_rows", result); err != nil {
		s.searchFailed(w, r, err)
	}
}

func (s *Server) searchFailed(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).
		Str("request_id", GetRequestID(r.Context())).
		Msg("search failed")
	s.fragment(w, r, http.StatusOK, "search_error", nil)
}

func (s *Server) clearCacheHandler(w http.ResponseWriter, r *http.Request) {
	s.fetcher.Clear()
	s.logger.Info().Msg("user cache cleared")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cache cleared"})
}

type cacheStatus struct {
	Cached     bool       `json:"cached"`
	FetchedAt  *time.Time `json:"fetched_at,omitempty"`
	AgeSeconds float64    `json:"age_seconds"`
	Count      int        `json:"count"`
	TTLSeconds float64    `json:"ttl_seconds"`
}

func (s *Server) cacheStatusHandler(w http.ResponseWriter, r *http.Request) {
	users, fetchedAt, ok := s.fetcher.Snapshot()
	status := cacheStatus{
		Cached:     ok,
		Count:      len(users),
		TTLSeconds: s.fetcher.TTL().Seconds(),
	}
	if ok {
		status.FetchedAt = &fetchedAt
	}
	if age, ok := s.fetcher.Age(); ok {
		status.AgeSeconds = age.Seconds()
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) calculateHandler(w http.ResponseWriter, r *http.Request) {
	res, err := bmi.Calculate(r.PostFormValue("height"), r.PostFormValue("weight"))
	if err != nil {
		s.fragment(w, r, http.StatusOK, "alert", alertData{Variant: "danger", Message: "❌ " + bmi.Message(err)})
		return
	}
	s.fragment(w, r, http.StatusOK, "bmi", res)
}

func (s *Server) priceHandler(w http.ResponseWriter, r *http.Request) {
	s.fragment(w, r, http.StatusOK, "price", s.ticker.Next())
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ticker.History())
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ticker.Stats())
}

func (s *Server) submitHandler(w http.ResponseWriter, r *http.Request) {
	out := validate.Signup(r.PostFormValue("email"), r.PostFormValue("password"))
	variant := "danger"
	if out.OK {
		variant = "success"
	}
	s.fragment(w, r, http.StatusOK, "alert", alertData{Variant: variant, Message: out.Message, Dismissible: true})
}

func (s *Server) sampleHandler(w http.ResponseWriter, r *http.Request) {
	out := validate.Sample(r.PostFormValue("name"), r.PostFormValue("email"), r.PostFormValue("favourite_color"))
	s.fragment(w, r, http.StatusOK, "sample_result", out)
}

func (s *Server) profileHandler(view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.lookupProfile(r)
		if err != nil {
			s.profileError(w, r, err)
			return
		}
		s.fragment(w, r, http.StatusOK, view, p)
	}
}

func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.profileError(w, r, profile.ErrNotFound)
		return
	}
	p, err := s.profiles.Update(id, r.PostFormValue("name"), r.PostFormValue("bio"))
	if err != nil {
		s.profileError(w, r, err)
		return
	}
	s.fragment(w, r, http.StatusOK, "profile_view", p)
}

func (s *Server) lookupProfile(r *http.Request) (profile.Profile, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return profile.Profile{}, profile.ErrNotFound
	}
	return s.profiles.Get(id)
}

func (s *Server) profileError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, profile.ErrNotFound) {
		status = http.StatusNotFound
	}
	s.fragment(w, r, status, "alert", alertData{Variant: "danger", Message: err.Error()})
}

func (s *Server) registerHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("GET /health", s.healthHandler)

	mux.HandleFunc("GET /users", s.usersHandler)

	mux.HandleFunc("POST /search", s.searchHandler)
	mux.HandleFunc("POST /clear-cache", s.clearCacheHandler)
	mux.HandleFunc("GET /cache/status", s.cacheStatusHandler)

	mux.HandleFunc("POST /calculate", s.calculateHandler)

	mux.HandleFunc("GET /get-price", s.priceHandler)
	mux.HandleFunc("GET /get-history", s.historyHandler)
	mux.HandleFunc("GET /get-stats", s.statsHandler)

	mux.HandleFunc("POST /submit", s.submitHandler)
	mux.HandleFunc("POST /sample", s.sampleHandler)

	mux.HandleFunc("GET /user/{id}/edit", s.profileHandler("profile_edit"))
	mux.HandleFunc("GET /user/{id}/view", s.profileHandler("profile_view"))
	mux.HandleFunc("PUT /user/{id}", s.updateProfileHandler)
}
