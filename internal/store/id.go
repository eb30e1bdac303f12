package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

const idSuffixLen = 9

// newID returns a base36 millisecond timestamp followed by a random suffix.
// Unique in practice, not guaranteed.
func newID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")

	return strconv.FormatInt(now.UnixMilli(), 36) + suffix[:idSuffixLen]
}
