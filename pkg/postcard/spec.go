package postcard

import (
	"errors"
	"strings"

	"github.com/dmitrymomot/postcard/pkg/validator"
)

const (
	MaxMessageChars = 200
	// MaxMessageLines is how many wrapped lines fit between greeting and closing.
	MaxMessageLines = 11

	DefaultBackground = "#FFFFFF"
)

// Asset is an encoded image (PNG, JPEG, GIF or WebP) as received from the client.
type Asset struct {
	Data      []byte
	MediaType string
}

// Empty reports a nil or zero-length asset.
func (a *Asset) Empty() bool {
	return a == nil || len(a.Data) == 0
}

// Spec is everything needed to draw one postcard. Renderers treat it as
// read-only.
type Spec struct {
	RecipientName   string
	SenderHandle    string
	Message         string
	BackgroundColor string

	Stamp     *Asset // optional: sender profile photo
	Photo     *Asset // back side
	Signature *Asset // hand-drawn
}

// Validate checks the text fields. Image presence is checked by the renderers
// so a missing image surfaces as ErrMissingAsset.
func (s Spec) Validate() error {
	err := validator.Apply(
		validator.RequiredString("recipientName", s.RecipientName),
		validator.RequiredString("handle", s.SenderHandle),
		validator.RequiredString("message", s.Message),
		validator.MaxRunes("message", s.Message, MaxMessageChars),
		validator.HexColor("backgroundColor", s.BackgroundColor),
	)
	if err != nil {
		return errors.Join(ErrValidation, err)
	}
	return nil
}

// CheckLines wraps the message with the body font and rejects it when it
// would run past the closing line. A nil fonts uses DefaultFonts.
func (s Spec) CheckLines(fonts *Fonts) error {
	if fonts == nil {
		fonts = DefaultFonts()
	}
	measure, err := fonts.Measurer(Regular, BodySize)
	if err != nil {
		return err
	}
	return CheckLineBudget(Wrap(s.Message, MessageMaxWidth, measure))
}

func (s Spec) Greeting() string {
	return "Hey " + strings.TrimSpace(s.RecipientName) + ","
}

func (s Spec) Closing() string {
	return "Sincerely, @" + strings.TrimPrefix(strings.TrimSpace(s.SenderHandle), "@")
}

// HandleFromName derives a handle from a display name: lower-cased, spaces removed.
func HandleFromName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}
