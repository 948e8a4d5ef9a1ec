// Package openhands provides the shared HTTP transport for the OpenHands
// Cloud API clients in the v0 and v1 subpackages.
//
// The transport keeps responses as raw JSON ([encoding/json.RawMessage]) so
// callers can explore server fields without schema maintenance; the field
// helpers in this package pull out the handful of values the CLI routinely
// needs (conversation id, status, URL, title).
//
// Two authentication schemes are supported: [NewClient] builds a client that
// sends "Authorization: Bearer <key>" (app server), and [NewSessionClient]
// builds one that sends "X-Session-API-Key" (the agent server running inside
// a sandbox).
//
// Requests carry no retries and no caching. Non-2xx responses surface as
// [*APIError] with the status, a log-safe URL, and a truncated response body.
package openhands
