package email

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrymomot/postcard/pkg/validator"
)

// Sender delivers a rendered postcard to its recipient.
type Sender interface {
	SendPostcard(ctx context.Context, p PostcardEmail) error
}

// PostcardEmail is the template model of a postcard notification. ImageURL
// must point at the hosted image; the bitmap itself is never attached.
type PostcardEmail struct {
	ToEmail    string `json:"to_email"`
	ToName     string `json:"to_name"`
	FromEmail  string `json:"from_email"`
	FromHandle string `json:"from_handle"`
	Message    string `json:"message"`
	ImageURL   string `json:"postcard_image"`
	Subject    string `json:"subject"`
}

// Subject builds the default subject line for a postcard from handle.
func Subject(handle string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return "You've got a postcard!"
	}
	return "You've got a postcard from @" + handle + "!"
}

// Validate checks the fields every provider needs.
func (p PostcardEmail) Validate() error {
	err := validator.Apply(
		validator.ValidEmail("to_email", p.ToEmail),
		validator.RequiredString("to_name", p.ToName),
		validator.RequiredString("from_handle", p.FromHandle),
		validator.RequiredString("postcard_image", p.ImageURL),
	)
	if err != nil {
		return errors.Join(ErrInvalidParams, err)
	}
	return nil
}

// Fields returns the template model keyed the way the email template expects.
// An empty subject is filled with Subject(FromHandle).
func (p PostcardEmail) Fields() map[string]any {
	subject := p.Subject
	if subject == "" {
		subject = Subject(p.FromHandle)
	}
	return map[string]any{
		"to_email":       p.ToEmail,
		"to_name":        p.ToName,
		"from_email":     p.FromEmail,
		"from_handle":    p.FromHandle,
		"message":        p.Message,
		"postcard_image": p.ImageURL,
		"subject":        subject,
	}
}
