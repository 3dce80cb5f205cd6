// Package api provides the HTTP REST API and WebSocket server for
// Foundline Core.
//
// It exposes the kiosk surface (report submission and browsing), the
// administrator surface (registrations, dashboard, report history), the
// operator surface (manual indicator control), and a ticket-authenticated
// WebSocket feed of ledger and signal events.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
