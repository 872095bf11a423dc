package rategate

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeEmail trims and case-folds an address so that quota and
// allow-list lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
