// Package services implements HTTP clients for the clip generation server.
//
// [APIService] provides raw GET/POST access for debugging and scripting, while
// [ClipService] is the typed client used by the UI: job creation, status
// polls, the caption update submission, clip listings, and the recovery
// endpoints (debug, fix, refresh).
//
// All methods take a [context.Context] and return explicit errors wrapping the
// sentinels in internal/shared: transport failures wrap ErrAPIRequest and
// structured server error text is surfaced verbatim under ErrServerReported.
package services
