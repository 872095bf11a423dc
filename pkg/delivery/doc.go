// Package delivery runs the send-a-postcard pipeline.
//
// An Orchestrator takes a Request through validation, the rate gate,
// rendering, upload and email. Each call to Send produces a fresh Attempt
// whose stage moves strictly forward:
//
//	idle -> validating -> rate_checking -> rendering -> uploading -> emailing -> sent
//
// Any non-terminal stage may instead move to failed. The failure is returned
// as *Error carrying the stage and the cause; match causes with errors.Is
// against ErrValidation, ErrRateLimited, ErrUploadFailed, ErrEmailFailed or
// the postcard renderer sentinels.
//
// Nothing is retried. Usage is recorded with the rate gate only after the
// email provider accepted the message, and the rendered image stays on the
// attempt after an upload or email failure.
package delivery
