package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object is an image to publish.
type Object struct {
	Name        string // key relative to the host's root, e.g. postcards/2025/03/10/<id>.jpg
	Data        []byte
	ContentType string
}

func (o Object) validate() error {
	switch {
	case len(o.Data) == 0:
		return fmt.Errorf("%w: empty data", ErrInvalidObject)
	case o.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidObject)
	case strings.Contains(o.Name, ".."):
		return fmt.Errorf("%w: %s", ErrInvalidPath, o.Name)
	}
	return nil
}

// Uploader publishes an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// ObjectName builds a unique, date-partitioned key: prefix/YYYY/MM/DD/<uuid><ext>.
func ObjectName(prefix string, at time.Time, ext string) string {
	at = at.UTC()
	return path.Join(
		strings.Trim(prefix, "/"),
		at.Format("2006"), at.Format("01"), at.Format("02"),
		uuid.NewString()+ext,
	)
}
