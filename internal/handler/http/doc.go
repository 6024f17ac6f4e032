// Package http implements the HTTP transport of the reference sync server.
//
// It exposes one REST collection per entity type under /api/v1, the bearer
// token middleware that guards them, and the cross-cutting middleware for
// request tracing, access logging and response compression. Handlers decode
// the wire format and delegate to the service layer.
package http
