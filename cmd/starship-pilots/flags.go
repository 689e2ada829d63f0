package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/Sternrassler/starship-pilots/pkg/client"
	"github.com/Sternrassler/starship-pilots/pkg/resolver"
	"github.com/Sternrassler/starship-pilots/pkg/swapi"
)

// ClientFlags configure the SWAPI transport.
type ClientFlags struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

func NewClientFlags() *ClientFlags {
	defaults := client.DefaultConfig(client.DefaultBaseURL)
	return &ClientFlags{
		BaseURL:   getEnv("SWAPI_BASE_URL", defaults.BaseURL),
		UserAgent: getEnv("SWAPI_USER_AGENT", defaults.UserAgent),
		Timeout:   defaults.Timeout,
	}
}

func (f *ClientFlags) BindFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.BaseURL, "base-url", f.BaseURL, "SWAPI root URL (env SWAPI_BASE_URL)")
	flagSet.StringVar(&f.UserAgent, "user-agent", f.UserAgent, "User-Agent sent to SWAPI (env SWAPI_USER_AGENT)")
	flagSet.DurationVar(&f.Timeout, "timeout", f.Timeout, "Timeout for a single SWAPI request")
}

func (f *ClientFlags) Config() client.Config {
	cfg := client.DefaultConfig(f.BaseURL)
	cfg.UserAgent = f.UserAgent
	cfg.Timeout = f.Timeout
	return cfg
}

// GetClient builds a SWAPI client with its own cache.
func (f *ClientFlags) GetClient() (*swapi.Client, error) {
	c, err := swapi.New(f.Config())
	if err != nil {
		return nil, fmt.Errorf("couldn't create SWAPI client: %w", err)
	}
	return c, nil
}

// StrategyFlags select how pilots are resolved.
type StrategyFlags struct {
	Strategy string
	Workers  int
}

func NewStrategyFlags() *StrategyFlags {
	return &StrategyFlags{
		Strategy: resolver.StrategyConcurrent,
		Workers:  resolver.DefaultWorkers,
	}
}

func (f *StrategyFlags) BindFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.Strategy, "strategy", f.Strategy,
		"Pilot resolution strategy (sequential, concurrent, bounded)")
	flagSet.IntVar(&f.Workers, "workers", f.Workers, "Worker count for the bounded strategy")
}

func (f *StrategyFlags) GetStrategy() (resolver.Strategy, error) {
	return resolver.ParseStrategy(f.Strategy, f.Workers)
}
