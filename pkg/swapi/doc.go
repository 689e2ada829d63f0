// Package swapi is the typed SWAPI surface built on the paginator, the
// resolver and the memoizing fetcher.
//
// Example usage:
//
//	c, err := swapi.New(client.DefaultConfig(client.DefaultBaseURL))
//	if err != nil {
//		return err
//	}
//
//	big := func(s swapi.Starship) bool { return s.CanCarry(3000) }
//	for ship, err := range c.Starships(ctx, big) {
//		if err != nil {
//			return err
//		}
//		pilots, err := c.Pilots(ctx, ship, resolver.Concurrent{})
//		...
//	}
package swapi
