// Package api is the HTTP surface of the postcard service.
//
// Routes, all under /api and open to every origin:
//
//	POST /api/check-email-limit  {email} -> {allowed, remaining, isCreator}
//	POST /api/generate-postcard  render only, answers with a data URL
//	POST /api/send-postcard      render, upload and email (with WithDeliverer)
//	GET  /api/health             liveness
//	GET  /api/db-test            readiness of the usage store
//
// Images travel as data URLs, so bodies may be up to MaxBodySize. When a
// media directory is configured its files are served under /media/.
package api
