package api

import (
	"errors"

	"github.com/dmitrymomot/postcard/pkg/postcard"
	"github.com/dmitrymomot/postcard/pkg/validator"
)

type CheckLimitRequest struct {
	Email string `json:"email"`
}

// UserData is the signed-in sender's profile as the client knows it.
type UserData struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Handle       string `json:"handle"`
	ProfileImage string `json:"profileImage"` // data URL, drawn as the stamp
}

// GenerateRequest carries images as data URLs.
type GenerateRequest struct {
	RecipientName   string   `json:"recipientName"`
	Handle          string   `json:"handle"`
	SenderEmail     string   `json:"senderEmail"`
	Message         string   `json:"message"`
	Photo           string   `json:"photo"`
	Signature       string   `json:"signature"`
	BackgroundColor string   `json:"postcardBackgroundColor"`
	UserData        UserData `json:"userData"`
	IsMobile        bool     `json:"isMobile"`
}

type SendRequest struct {
	GenerateRequest
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	HighFidelity   bool   `json:"highFidelity"`
}

// handle falls back to the profile handle, then to one derived from the
// profile name.
func (r GenerateRequest) handle() string {
	switch {
	case r.Handle != "":
		return r.Handle
	case r.UserData.Handle != "":
		return r.UserData.Handle
	default:
		return postcard.HandleFromName(r.UserData.Name)
	}
}

func (r GenerateRequest) senderEmail() string {
	if r.SenderEmail != "" {
		return r.SenderEmail
	}
	return r.UserData.Email
}

var errMissingFields = errors.New("missing required fields")

// spec checks presence first, so a missing field is reported as such rather
// than as an undecodable image. Presence failures are joined with
// errMissingFields; the rest are plain validation errors.
func (r GenerateRequest) spec(fonts *postcard.Fonts) (postcard.Spec, error) {
	if err := validator.Apply(
		validator.RequiredString("recipientName", r.RecipientName),
		validator.RequiredString("handle", r.handle()),
		validator.RequiredString("message", r.Message),
		validator.RequiredString("photo", r.Photo),
		validator.RequiredString("signature", r.Signature),
	); err != nil {
		return postcard.Spec{}, errors.Join(errMissingFields, err)
	}

	s := postcard.Spec{
		RecipientName:   r.RecipientName,
		SenderHandle:    r.handle(),
		Message:         r.Message,
		BackgroundColor: r.BackgroundColor,
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = postcard.DefaultBackground
	}

	var errs validator.ValidationErrors
	assets := []struct {
		field string
		src   string
		dst   **postcard.Asset
	}{
		{"photo", r.Photo, &s.Photo},
		{"signature", r.Signature, &s.Signature},
		{"userData.profileImage", r.UserData.ProfileImage, &s.Stamp},
	}
	for _, a := range assets {
		asset, err := postcard.ParseDataURL(a.src)
		if err != nil {
			errs.Add(validator.ValidationError{Field: a.field, Message: err.Error()})
			continue
		}
		*a.dst = asset
	}
	if !errs.IsEmpty() {
		return postcard.Spec{}, errs
	}

	if err := s.Validate(); err != nil {
		return postcard.Spec{}, err
	}
	if err := s.CheckLines(fonts); err != nil {
		return postcard.Spec{}, err
	}
	return s, nil
}
