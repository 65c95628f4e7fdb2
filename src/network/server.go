// Package network exposes the running simulation over HTTP: read-only views
// of the latest snapshot plus the manual override and runtime settings.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"liftsim/src/building"
	"liftsim/src/config"
	"liftsim/src/types"

	"github.com/go-chi/chi/v5"
)

// Sim is the part of the executor the server needs.
type Sim interface {
	Latest() building.Snapshot
	Try(fn func(b *building.Building) error) error
}

// NewRouter builds the HTTP routes over sim.
func NewRouter(sim Sim) http.Handler {
	r := chi.NewRouter()
	r.Use(logRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sim.Latest())
	})
	r.Get("/cars", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sim.Latest().Cars)
	})
	r.Get("/riders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sim.Latest().Riders)
	})
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sim.Latest().Stats)
	})

	r.Post("/cars/{car}/calls/{floor}", func(w http.ResponseWriter, r *http.Request) {
		car, ok := intParam(w, r, "car")
		if !ok {
			return
		}
		floor, ok := intParam(w, r, "floor")
		if !ok {
			return
		}
		apply(w, sim, func(b *building.Building) error {
			return b.RequestManualCall(types.CarID(car), floor)
		})
	})

	r.Post("/calls/{floor}/{dir}", func(w http.ResponseWriter, r *http.Request) {
		floor, ok := intParam(w, r, "floor")
		if !ok {
			return
		}
		dir, err := types.ParseDirection(chi.URLParam(r, "dir"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		apply(w, sim, func(b *building.Building) error {
			return b.RequestCall(floor, dir)
		})
	})

	r.Post("/riders/{origin}/{dest}", func(w http.ResponseWriter, r *http.Request) {
		origin, ok := intParam(w, r, "origin")
		if !ok {
			return
		}
		dest, ok := intParam(w, r, "dest")
		if !ok {
			return
		}
		var id types.RiderID
		err := sim.Try(func(b *building.Building) error {
			var err error
			id, err = b.SpawnRider(origin, dest)
			return err
		})
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, http.StatusCreated, map[string]types.RiderID{"id": id})
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, sim.Latest().Settings)
		})
		r.Put("/control-mode/{mode}", func(w http.ResponseWriter, r *http.Request) {
			mode, err := types.ParseControlMode(chi.URLParam(r, "mode"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			apply(w, sim, func(b *building.Building) error { return b.SetControlMode(mode) })
		})
		r.Put("/active-cars/{n}", intSetting(sim, "n", (*building.Building).SetNumActiveCars))
		r.Put("/passenger-load/{level}", intSetting(sim, "level", (*building.Building).SetPassengerLoad))
		r.Put("/speed/{speed}", intSetting(sim, "speed", (*building.Building).SetElevSpeed))
	})

	return r
}

func intSetting(sim Sim, param string, set func(*building.Building, int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := intParam(w, r, param)
		if !ok {
			return
		}
		apply(w, sim, func(b *building.Building) error { return set(b, v) })
	}
}

func apply(w http.ResponseWriter, sim Sim, fn func(b *building.Building) error) {
	if err := sim.Try(fn); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, building.ErrNotManual):
		return http.StatusConflict
	case errors.Is(err, building.ErrUnknownCar):
		return http.StatusNotFound
	case errors.Is(err, building.ErrFloorOutOfRange), errors.Is(err, config.ErrInvalid):
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "bad "+name, http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, sim Sim) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(sim),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		slog.Info("HTTP server stopped")
		return nil
	}
}
