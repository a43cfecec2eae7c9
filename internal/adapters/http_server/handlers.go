// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"trip_planner/internal/app"
	"trip_planner/internal/domain"
)

const msgGenerationFailed = "Error generating itinerary"

type Handlers struct {
	Planner     *app.Planner
	Transmitter *app.Transmitter
	Limiter     domain.RateLimiter // nil disables rate limiting
	StaticDir   string             // empty disables static serving
}

type message struct {
	Message string `json:"message"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Group(func(r chi.Router) {
		if h.Limiter != nil {
			r.Use(RateLimit(h.Limiter))
		}
		r.Post("/api/plan-trip", h.planTrip)
	})
	if h.StaticDir != "" {
		s.mux.Handle("/*", http.FileServer(http.Dir(h.StaticDir)))
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(message{Message: msg}); err != nil {
		log.Error().Err(err).Msg("write JSON message response failed")
	}
}

func (h *Handlers) planTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := app.DecodeTripRequest(r.Body)
	var plan domain.Plan
	if err == nil {
		plan, err = app.Validate(req)
	}
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeMessage(w, http.StatusBadRequest, ve.Message)
			return
		}
		writeMessage(w, http.StatusBadRequest, app.MsgFieldsRequired)
		return
	}

	text, err := h.Planner.Itinerary(ctx, plan)
	if err != nil {
		log.Error().Err(err).
			Str("destination", plan.Destination).
			Bool("context", errors.Is(err, domain.ErrContext)).
			Bool("generation", errors.Is(err, domain.ErrGeneration)).
			Msg("itinerary generation failed")
		writeMessage(w, http.StatusInternalServerError, msgGenerationFailed)
		return
	}

	// From here on the status is committed; failures can only be reported in-band.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Transfer-Encoding", "chunked")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	stream := h.Transmitter.Open(w)
	if err := stream.Send(ctx, text); err != nil {
		log.Error().Err(err).Int("sent", stream.Sent()).Msg("itinerary stream interrupted")
		stream.Abort(app.InBandErrorMarker)
		return
	}
	log.Info().Int("bytes", stream.Sent()).Msg("itinerary streamed")
}
