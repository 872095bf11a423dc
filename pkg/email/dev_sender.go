package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/postcard/pkg/email/templates"
)

// DevSender implements Sender for local development.
// It saves each postcard email as rendered HTML plus its template model as
// JSON instead of handing it to a provider.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender creates a development sender writing to dir.
// The directory is created on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

type emailRecord struct {
	Timestamp string         `json:"timestamp"`
	Model     map[string]any `json:"model"`
}

// SendPostcard writes <timestamp>_<recipient>.html and .json into the directory.
func (d *DevSender) SendPostcard(ctx context.Context, p PostcardEmail) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	model := p.Fields()
	body, err := templates.Render(ctx, templates.Postcard(templates.PostcardData{
		ToName:     p.ToName,
		FromHandle: p.FromHandle,
		Message:    p.Message,
		ImageURL:   p.ImageURL,
		Subject:    model["subject"].(string),
	}))
	if err != nil {
		return fmt.Errorf("%w: failed to render body: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(p.ToEmail))

	if err := os.WriteFile(filepath.Join(d.dir, base+".html"), []byte(body), 0644); err != nil {
		return fmt.Errorf("%w: failed to write HTML file: %v", ErrFailedToSendEmail, err)
	}

	data, err := json.MarshalIndent(emailRecord{
		Timestamp: now.Format(time.RFC3339),
		Model:     model,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal model: %v", ErrFailedToSendEmail, err)
	}

	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write JSON file: %v", ErrFailedToSendEmail, err)
	}

	return nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename keeps letters, digits, dash, underscore and dot; "@"
// becomes "_at_". Results are lower-cased and capped at 100 bytes.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, "@", "_at_")
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "postcard"
	}

	return strings.ToLower(s)
}
