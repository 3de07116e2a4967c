// Package server exposes the collection over a JSON REST API.
//
// # Routing
//
// Routes are registered on a gorilla/mux router. Auth endpoints
// (/api/auth/register, /api/auth/login) and the operational endpoints
// (/healthz, /metrics) are public; everything else under /api requires a
// bearer token issued by login.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. Request logging and metrics apply to
// every route.
//
// # Responses
//
// Every API response uses the same envelope:
//
//	{"success": true, "data": ...}
//	{"success": false, "error": "..."}
//
// Handlers translate the shared sentinel errors into HTTP statuses: not-found
// errors become 404, validation errors 400, upstream rate limits 503.
package server
