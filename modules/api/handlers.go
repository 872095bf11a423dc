package api

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/postcard/handler"
	"github.com/dmitrymomot/postcard/pkg/delivery"
	"github.com/dmitrymomot/postcard/pkg/logger"
	"github.com/dmitrymomot/postcard/pkg/postcard"
	"github.com/dmitrymomot/postcard/pkg/rategate"
	"github.com/dmitrymomot/postcard/pkg/validator"
)

const (
	renderedByMarkup     = "markup"
	renderedByCompositor = "compositor"
)

// GenerateResponse is the body of every /api/generate-postcard answer.
type GenerateResponse struct {
	Success       bool   `json:"success"`
	PostcardImage string `json:"postcardImage,omitempty"`
	Error         string `json:"error,omitempty"`
	Details       any    `json:"details,omitempty"`
}

// SendResponse is the body of /api/send-postcard answers other than 429.
type SendResponse struct {
	Success   bool   `json:"success"`
	AttemptID string `json:"attemptId,omitempty"`
	Stage     string `json:"stage,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// RateLimitedResponse keeps remaining even when it is zero.
type RateLimitedResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Remaining any    `json:"remaining"`
}

func (m *Module) checkEmailLimit(ctx handler.Context, req CheckLimitRequest) handler.Response {
	if req.Email == "" {
		return handler.JSONError(http.StatusBadRequest, "Email is required", nil)
	}

	d, err := m.gate.Check(ctx, req.Email)
	if err != nil {
		if errors.Is(err, rategate.ErrEmailRequired) {
			return handler.JSONError(http.StatusBadRequest, "Email is required", nil)
		}
		m.log.ErrorContext(ctx, "failed to check email limit",
			logger.Handler("check_email_limit"),
			logger.Error(err),
		)
		return handler.JSONError(http.StatusInternalServerError, "Failed to check email limit", err.Error())
	}

	return handler.JSON(d)
}

func (m *Module) generatePostcard(ctx handler.Context, req GenerateRequest) handler.Response {
	spec, err := req.spec(m.fonts)
	if err != nil {
		return generateFailure(http.StatusBadRequest, validationMessage(err), validationDetails(err))
	}

	opts := postcard.DownloadOptions()
	if req.IsMobile {
		opts.Scale = 2
	}

	r, name := m.compositor, renderedByCompositor
	if m.markup != nil {
		r, name = m.markup, renderedByMarkup
	}

	out, err := r.Render(ctx, spec, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, postcard.ErrMissingAsset) || errors.Is(err, postcard.ErrValidation) {
			status = http.StatusBadRequest
		}
		m.log.ErrorContext(ctx, "failed to generate postcard",
			logger.Handler("generate_postcard"),
			logger.Renderer(name),
			logger.Error(err),
		)
		return generateFailure(status, "Failed to generate postcard", err.Error())
	}

	m.log.DebugContext(ctx, "postcard generated",
		logger.Handler("generate_postcard"),
		logger.Renderer(name),
	)
	return handler.JSON(GenerateResponse{Success: true, PostcardImage: out.DataURL()})
}

func (m *Module) sendPostcard(ctx handler.Context, req SendRequest) handler.Response {
	spec, err := req.spec(m.fonts)
	if err != nil {
		return handler.JSON(SendResponse{
			Error:   validationMessage(err),
			Details: validationDetails(err),
		}, handler.WithJSONStatus(http.StatusBadRequest))
	}

	a, err := m.deliverer.Send(ctx, delivery.Request{
		Spec:           spec,
		SenderEmail:    req.senderEmail(),
		RecipientEmail: req.RecipientEmail,
		Subject:        req.Subject,
		Mobile:         req.IsMobile,
		HighFidelity:   req.HighFidelity,
	})
	if err != nil {
		return sendFailure(a, err)
	}

	return handler.JSON(SendResponse{
		Success:   true,
		AttemptID: a.ID,
		Stage:     a.Stage().Name(),
		ImageURL:  a.ImageURL(),
	})
}

func sendFailure(a *delivery.Attempt, err error) handler.Response {
	resp := SendResponse{Error: "Failed to send postcard"}
	if a != nil {
		resp.AttemptID = a.ID
	}

	var reason string
	if de, ok := delivery.AsError(err); ok {
		resp.Stage = de.Stage.Name()
		reason = de.Reason()
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, delivery.ErrRateLimited):
		var remaining any
		if a != nil {
			remaining = a.Decision().Remaining
		}
		return handler.JSON(RateLimitedResponse{
			Error:     "Daily email limit reached",
			Remaining: remaining,
		}, handler.WithJSONStatus(http.StatusTooManyRequests))
	case errors.Is(err, delivery.ErrValidation):
		status = http.StatusBadRequest
		resp.Error = "Invalid postcard"
		resp.Details = validationDetails(err)
	case errors.Is(err, postcard.ErrMissingAsset):
		status = http.StatusBadRequest
		resp.Details = reason
	case errors.Is(err, rategate.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		resp.Error = "Failed to check email limit"
	case errors.Is(err, postcard.ErrRenderTimeout), errors.Is(err, postcard.ErrBrowserUnavailable):
		status = http.StatusServiceUnavailable
		resp.Details = "renderer unavailable, try again"
	default:
		resp.Details = reason
	}

	return handler.JSON(resp, handler.WithJSONStatus(status))
}

func generateFailure(status int, msg string, details any) handler.Response {
	return handler.JSON(GenerateResponse{Error: msg, Details: details}, handler.WithJSONStatus(status))
}

func validationMessage(err error) string {
	if errors.Is(err, errMissingFields) {
		return "Missing required fields"
	}
	return "Invalid postcard fields"
}

func validationDetails(err error) any {
	if ve := validator.Extract(err); ve != nil {
		return ve.Map()
	}
	return err.Error()
}
