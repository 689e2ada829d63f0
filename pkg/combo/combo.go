// Package combo reports the starship/pilot pairs able to move a given number
// of passengers.
package combo

import (
	"context"
	"fmt"
	"iter"

	"github.com/Sternrassler/starship-pilots/pkg/logging"
	"github.com/Sternrassler/starship-pilots/pkg/resolver"
	"github.com/Sternrassler/starship-pilots/pkg/swapi"
)

var logger = logging.NewLogger("combo")

// Combo is one starship paired with one of its pilots.
type Combo struct {
	Starship swapi.Starship
	Pilot    swapi.Person
}

// DisplayFunc renders a combo as a line of output.
type DisplayFunc func(ship swapi.Starship, pilot swapi.Person) string

// DefaultDisplay renders "{Starship} - {Pilot}".
func DefaultDisplay(ship swapi.Starship, pilot swapi.Person) string {
	return fmt.Sprintf("%s - %s", ship.Name, pilot.Name)
}

// Options tune a report. The zero value resolves pilots concurrently and
// uses DefaultDisplay.
type Options struct {
	Strategy resolver.Strategy
	Display  DisplayFunc
}

func (o Options) withDefaults() Options {
	if o.Strategy == nil {
		o.Strategy = resolver.Concurrent{}
	}
	if o.Display == nil {
		o.Display = DefaultDisplay
	}
	return o
}

// Combos yields every (starship, pilot) pair where the starship can carry
// at least passengers. Starships come in SWAPI order and pilots in the
// order each starship lists them; a starship's pilots are all resolved
// before any of its pairs is yielded. Ships with an unknown capacity never
// match.
func Combos(ctx context.Context, c *swapi.Client, passengers int, strategy resolver.Strategy) iter.Seq2[Combo, error] {
	if strategy == nil {
		strategy = resolver.Concurrent{}
	}

	return func(yield func(Combo, error) bool) {
		ships := c.Starships(ctx, func(s swapi.Starship) bool {
			return s.CanCarry(passengers)
		})

		for ship, err := range ships {
			if err != nil {
				yield(Combo{}, fmt.Errorf("list starships: %w", err))
				return
			}

			pilots, err := c.Pilots(ctx, ship, strategy)
			if err != nil {
				yield(Combo{}, err)
				return
			}

			logger.Debug().
				Str("starship", ship.Name).
				Int("items", len(pilots)).
				Str("strategy", strategy.Name()).
				Msg("Starship matched")

			for _, pilot := range pilots {
				if !yield(Combo{Starship: ship, Pilot: pilot}, nil) {
					return
				}
			}
		}
	}
}

// ByPassengers is Combos rendered through opts.Display.
func ByPassengers(ctx context.Context, c *swapi.Client, passengers int, opts Options) iter.Seq2[string, error] {
	opts = opts.withDefaults()

	return func(yield func(string, error) bool) {
		for combo, err := range Combos(ctx, c, passengers, opts.Strategy) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(opts.Display(combo.Starship, combo.Pilot), nil) {
				return
			}
		}
	}
}
