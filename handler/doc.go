// Package handler provides type-safe JSON HTTP handlers.
//
// A HandlerFunc receives a Context and a request value already decoded by a
// Bind function, and returns a Response. Wrap turns it into an
// http.HandlerFunc:
//
//	type CheckRequest struct {
//		Email string `json:"email"`
//	}
//
//	check := func(ctx handler.Context, req CheckRequest) handler.Response {
//		d, err := gate.Check(ctx, req.Email)
//		if err != nil {
//			return handler.JSONError(http.StatusInternalServerError, "Failed to check email limit", err.Error())
//		}
//		return handler.JSON(d)
//	}
//
//	r.Post("/api/check-email-limit", handler.Wrap(check,
//		handler.WithBinder[handler.Context, CheckRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, CheckRequest](handler.NewErrorHandler(log)),
//	))
//
// Binding and rendering failures go to the ErrorHandler. NewErrorHandler
// classifies them with ClassifyError (binder errors become 400, 413 or 415,
// validator.ValidationErrors 400, HTTPError its own code, anything else 500),
// logs them with the request id and writes an ErrorResponse body.
//
// Decorators wrap a HandlerFunc for cross-cutting concerns such as timing.
package handler
