// Package pagination walks SWAPI's "next"-linked collections as lazy sequences.
//
// SWAPI returns collections as pages of {count, next, previous, results}. The
// next link is opaque (usually an absolute URL) and null on the last page.
// Pages are fetched strictly one after another, and only as fast as the
// caller consumes items.
//
// Example usage:
//
//	fetcher := cache.NewFetcher(transport)
//	big := func(s swapi.Starship) bool { return s.Name != "" }
//
//	for ship, err := range pagination.Walk(ctx, fetcher, "/starships/", big) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(ship.Name)
//	}
//
// The walker:
//   - Fetches the start page, filters its results, then follows next
//   - Preserves server order (page order, then within-page order)
//   - Walks every page, even once the predicate has stopped matching
//   - Yields a page error once and stops
//   - Stops fetching when the caller breaks out of the loop
package pagination
