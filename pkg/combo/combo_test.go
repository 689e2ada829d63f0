package combo

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/Sternrassler/starship-pilots/internal/testutil"
	"github.com/Sternrassler/starship-pilots/pkg/client"
	"github.com/Sternrassler/starship-pilots/pkg/pagination"
	"github.com/Sternrassler/starship-pilots/pkg/resolver"
	"github.com/Sternrassler/starship-pilots/pkg/swapi"
)

func setupFleet(t *testing.T) (*testutil.MockSWAPI, *swapi.Client) {
	t.Helper()

	mock := testutil.NewMockSWAPI()
	base := mock.BaseURL()

	mock.SetPaginated("/starships/",
		[]any{
			testutil.Starship("X-wing", "0", base+"/people/1/"),
			testutil.Starship("Millennium Falcon", "6", base+"/people/13/", base+"/people/14/"),
		},
		[]any{
			testutil.Starship("Imperial shuttle", "20", base+"/people/1/", base+"/people/4/"),
			testutil.Starship("Death Star", "843,342"),
			testutil.Starship("Rebel transport", "unknown", base+"/people/14/"),
		},
	)
	mock.SetResourceWithDelay("/people/1/", testutil.Person("Luke Skywalker", base+"/people/1/"), 30*time.Millisecond)
	mock.SetResource("/people/4/", testutil.Person("Darth Vader", base+"/people/4/"))
	mock.SetResourceWithDelay("/people/13/", testutil.Person("Chewbacca", base+"/people/13/"), 20*time.Millisecond)
	mock.SetResource("/people/14/", testutil.Person("Han Solo", base+"/people/14/"))

	c, err := swapi.New(client.DefaultConfig(base))
	if err != nil {
		mock.Close()
		t.Fatalf("Failed to create client: %v", err)
	}
	return mock, c
}

func TestByPassengers(t *testing.T) {
	tests := []struct {
		name       string
		passengers int
		want       []string
	}{
		{
			name:       "everyone fits in a falcon",
			passengers: 6,
			want: []string{
				"Millennium Falcon - Chewbacca",
				"Millennium Falcon - Han Solo",
				"Imperial shuttle - Luke Skywalker",
				"Imperial shuttle - Darth Vader",
			},
		},
		{
			name:       "only the shuttle has pilots for 20",
			passengers: 20,
			want: []string{
				"Imperial shuttle - Luke Skywalker",
				"Imperial shuttle - Darth Vader",
			},
		},
		{
			name:       "death star has no pilots",
			passengers: 3000,
			want:       nil,
		},
	}

	for _, strategy := range []resolver.Strategy{resolver.Sequential{}, resolver.Concurrent{}, resolver.Bounded{Workers: 1}} {
		for _, tt := range tests {
			t.Run(strategy.Name()+"/"+tt.name, func(t *testing.T) {
				mock, c := setupFleet(t)
				defer mock.Close()

				got, err := pagination.Collect(ByPassengers(context.Background(), c, tt.passengers, Options{Strategy: strategy}))
				if err != nil {
					t.Fatalf("ByPassengers() error = %v", err)
				}
				if !slices.Equal(got, tt.want) {
					t.Errorf("ByPassengers() = %v, want %v", got, tt.want)
				}
			})
		}
	}
}

func TestByPassengers_CustomDisplay(t *testing.T) {
	mock, c := setupFleet(t)
	defer mock.Close()

	display := func(ship swapi.Starship, pilot swapi.Person) string {
		return "v2 - " + ship.Name + " - " + pilot.Name
	}

	got, err := pagination.Collect(ByPassengers(context.Background(), c, 20, Options{Display: display}))
	if err != nil {
		t.Fatalf("ByPassengers() error = %v", err)
	}
	want := []string{"v2 - Imperial shuttle - Luke Skywalker", "v2 - Imperial shuttle - Darth Vader"}
	if !slices.Equal(got, want) {
		t.Errorf("ByPassengers() = %v, want %v", got, want)
	}
}

func TestByPassengers_WarmCache(t *testing.T) {
	mock, c := setupFleet(t)
	defer mock.Close()

	for run := 0; run < 3; run++ {
		if _, err := pagination.Collect(ByPassengers(context.Background(), c, 1, Options{})); err != nil {
			t.Fatalf("run %d: error = %v", run, err)
		}
	}

	// 2 pages + 4 distinct pilots, each fetched once across all runs.
	if got := mock.GetRequestCount(); got != 6 {
		t.Errorf("server requests = %d, want 6", got)
	}
}

func TestByPassengers_PilotFailure(t *testing.T) {
	mock, c := setupFleet(t)
	defer mock.Close()
	mock.SetResponse("/people/4/", testutil.NewServerErrorResponse())

	var lines []string
	var errs []error
	for line, err := range ByPassengers(context.Background(), c, 6, Options{}) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lines = append(lines, line)
	}

	if want := []string{"Millennium Falcon - Chewbacca", "Millennium Falcon - Han Solo"}; !slices.Equal(lines, want) {
		t.Errorf("lines before failure = %v, want %v", lines, want)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}

	var linkErr *resolver.LinkError
	if !errors.As(errs[0], &linkErr) {
		t.Fatalf("error = %v, want *resolver.LinkError", errs[0])
	}
	if linkErr.Index != 1 {
		t.Errorf("failed pilot index = %d, want 1", linkErr.Index)
	}
}

func TestByPassengers_StopEarly(t *testing.T) {
	mock, c := setupFleet(t)
	defer mock.Close()

	for line, err := range ByPassengers(context.Background(), c, 6, Options{}) {
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if line == "Millennium Falcon - Chewbacca" {
			break
		}
	}

	if got := mock.RequestCountFor("/starships/?page=2"); got != 0 {
		t.Errorf("page 2 requested %d times after stopping on page 1", got)
	}
}

func TestDefaultDisplay(t *testing.T) {
	got := DefaultDisplay(swapi.Starship{Name: "Millennium Falcon"}, swapi.Person{Name: "Han Solo"})
	if got != "Millennium Falcon - Han Solo" {
		t.Errorf("DefaultDisplay() = %q", got)
	}
}
