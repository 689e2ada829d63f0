package swapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Resource kinds, as they appear in collection paths ("/starships/").
const (
	ResourcePeople    = "people"
	ResourceStarships = "starships"
)

// ErrUnknownCapacity is returned for ships whose passenger count SWAPI
// reports as "unknown", "n/a" or not at all.
var ErrUnknownCapacity = errors.New("passenger capacity unknown")

// Person is a SWAPI people resource. Starships, Vehicles, Films, Species
// and Homeworld hold linked references.
type Person struct {
	Name      string   `json:"name"`
	Height    string   `json:"height"`
	Mass      string   `json:"mass"`
	HairColor string   `json:"hair_color"`
	SkinColor string   `json:"skin_color"`
	EyeColor  string   `json:"eye_color"`
	BirthYear string   `json:"birth_year"`
	Gender    string   `json:"gender"`
	Homeworld string   `json:"homeworld"`
	Films     []string `json:"films"`
	Species   []string `json:"species"`
	Vehicles  []string `json:"vehicles"`
	Starships []string `json:"starships"`
	Created   string   `json:"created"`
	Edited    string   `json:"edited"`
	URL       string   `json:"url"`
}

// Starship is a SWAPI starships resource. Pilots and Films hold linked
// references.
type Starship struct {
	Name                 string   `json:"name"`
	Model                string   `json:"model"`
	Manufacturer         string   `json:"manufacturer"`
	CostInCredits        string   `json:"cost_in_credits"`
	Length               string   `json:"length"`
	MaxAtmospheringSpeed string   `json:"max_atmosphering_speed"`
	Crew                 string   `json:"crew"`
	Passengers           string   `json:"passengers"`
	CargoCapacity        string   `json:"cargo_capacity"`
	Consumables          string   `json:"consumables"`
	HyperdriveRating     string   `json:"hyperdrive_rating"`
	MGLT                 string   `json:"MGLT"`
	StarshipClass        string   `json:"starship_class"`
	Pilots               []string `json:"pilots"`
	Films                []string `json:"films"`
	Created              string   `json:"created"`
	Edited               string   `json:"edited"`
	URL                  string   `json:"url"`
}

// PassengerCapacity parses Passengers. Thousands separators are accepted
// ("843,342"); unknown values yield ErrUnknownCapacity and anything else
// unparsable (such as ranges) a parse error.
func (s Starship) PassengerCapacity() (int, error) {
	raw := strings.TrimSpace(s.Passengers)

	switch strings.ToLower(raw) {
	case "", "unknown", "n/a", "none":
		return 0, ErrUnknownCapacity
	}

	n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("parse passengers %q: %w", s.Passengers, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("parse passengers %q: negative capacity", s.Passengers)
	}
	return n, nil
}

// CanCarry reports whether the ship has a known capacity of at least
// passengers.
func (s Starship) CanCarry(passengers int) bool {
	capacity, err := s.PassengerCapacity()
	return err == nil && capacity >= passengers
}
