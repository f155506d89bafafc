// Package http implements the read-only JSON API over stored conversion
// runs. Handlers stay thin: they parse path and query parameters, call a
// service and render the result with go-chi/render. Every failure goes
// through the shared errors.ErrorHandler and is answered as RFC 7807
// problem JSON.
//
// # Routes
//
//	GET /api/health                      liveness summary
//	GET /api/health/ready                store readiness
//	GET /api/health/live                 runtime details
//	GET /api/version                     build information
//	GET /api/runs?limit=N                stored runs, newest first
//	GET /api/runs/{run}                  one run snapshot ("latest" allowed)
//	GET /api/runs/{run}/entities         entities of a run, ?region= filter
//	GET /api/runs/{run}/entities/{name}  one entity by name or variable
//	GET /api/entities                    entities of ?run= (default latest)
//	GET /api/entities/{name}             one entity of ?run=
package http
