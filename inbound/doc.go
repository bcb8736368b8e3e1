// Package inbound serves the OAuth callback surface.
//
// The router answers two GET routes: a static landing text at "/" and the
// authorization redirect at "/oauth/callback". Client errors echo a readable
// message; server errors return a generic body and log the cause.
package inbound
