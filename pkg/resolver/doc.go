// Package resolver fans out the resolution of linked references.
//
// A SWAPI resource links to others by URL (a starship's pilots, a person's
// starships). ResolveAll turns a list of such links into the linked
// resources, in the order the links were given:
//
//	pilots, err := resolver.ResolveAll(ctx, ship.Pilots, fetchPerson, resolver.Bounded{Workers: 4})
//
// Strategies change how many resolutions run at once, never the result:
//
//   - Sequential: one link at a time
//   - Concurrent: all links at once
//   - Bounded: at most Workers links at once (errgroup with a limit)
//
// Failures never cut a batch short. Every sibling finishes first, then the
// failures come back together as *LinkError values joined with errors.Join.
package resolver
