package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sternrassler/starship-pilots/pkg/combo"
	"github.com/Sternrassler/starship-pilots/pkg/metrics"
	"github.com/Sternrassler/starship-pilots/pkg/resolver"
	"github.com/Sternrassler/starship-pilots/pkg/swapi"
)

const requestTimeout = 30 * time.Second

type ServerFlags struct {
	ClientFlags   *ClientFlags
	StrategyFlags *StrategyFlags

	ListenAddr string
}

func NewServerFlags() *ServerFlags {
	return &ServerFlags{
		ClientFlags:   NewClientFlags(),
		StrategyFlags: NewStrategyFlags(),
		ListenAddr:    ":" + getEnv("PORT", "8080"),
	}
}

func (f *ServerFlags) BindFlags(flagSet *pflag.FlagSet) {
	f.ClientFlags.BindFlags(flagSet)
	f.StrategyFlags.BindFlags(flagSet)

	flagSet.StringVar(&f.ListenAddr, "listen", f.ListenAddr, "The address to serve combos and metrics on (env PORT)")
}

func NewServeCommand() *cobra.Command {
	f := NewServerFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve combos over HTTP, sharing one warm cache across requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := f.StrategyFlags.GetStrategy()
			if err != nil {
				return err
			}

			c, err := f.ClientFlags.GetClient()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := &http.Server{
				Addr:              f.ListenAddr,
				Handler:           newServer(c, strategy, f.StrategyFlags.Workers),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Server shutdown failed")
				}
			}()

			log.Info().
				Str("addr", f.ListenAddr).
				Str("base_url", f.ClientFlags.BaseURL).
				Str("strategy", strategy.Name()).
				Msg("Starting starship-pilots server")

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			log.Info().Msg("Server stopped")
			return nil
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}

// newServer wires the HTTP routes around one shared client.
func newServer(c *swapi.Client, strategy resolver.Strategy, workers int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/combos", combosHandler(c, strategy, workers))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

type comboJSON struct {
	Starship string `json:"starship"`
	Pilot    string `json:"pilot"`
	Display  string `json:"display"`
}

type combosResponse struct {
	Passengers int         `json:"passengers"`
	Strategy   string      `json:"strategy"`
	Count      int         `json:"count"`
	Combos     []comboJSON `json:"combos"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func combosHandler(c *swapi.Client, defaultStrategy resolver.Strategy, workers int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}

		query := r.URL.Query()

		passengers, err := strconv.Atoi(query.Get("passengers"))
		if err != nil || passengers < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("passengers must be a non-negative integer (got %q)", query.Get("passengers")),
			})
			return
		}

		strategy := defaultStrategy
		if name := query.Get("strategy"); name != "" {
			if strategy, err = resolver.ParseStrategy(name, workers); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		start := time.Now()
		resp := combosResponse{
			Passengers: passengers,
			Strategy:   strategy.Name(),
			Combos:     []comboJSON{},
		}
		for pair, err := range combo.Combos(ctx, c, passengers, strategy) {
			if err != nil {
				log.Error().Err(err).Int("passengers", passengers).Msg("Combo report failed")
				writeJSON(w, http.StatusBadGateway, errorResponse{Error: fmt.Sprintf("SWAPI request failed: %v", err)})
				return
			}
			resp.Combos = append(resp.Combos, comboJSON{
				Starship: pair.Starship.Name,
				Pilot:    pair.Pilot.Name,
				Display:  combo.DefaultDisplay(pair.Starship, pair.Pilot),
			})
		}
		resp.Count = len(resp.Combos)

		log.Info().
			Int("passengers", passengers).
			Str("strategy", strategy.Name()).
			Int("items", resp.Count).
			Dur("duration", time.Since(start)).
			Msg("Combos served")

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}
