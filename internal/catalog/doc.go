// Package catalog talks to the primary game catalog API and interprets the
// records it returns.
//
// Client issues search and detail queries using a Client-ID header plus a
// bearer token obtained from TokenSource. TokenSource fetches the token with
// the client-credentials grant, reuses it until shortly before expiry, and
// collapses concurrent refreshes into a single request.
//
// Resolve and LinkDLCs classify a record as a main game, DLC, or edition
// variant and link embedded DLC entries back to their parent by name key.
package catalog
