package ledger

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

const linkCodePrefix = "BR"

// NewLinkCode returns a reservation link code: prefix, base36 unix millis and
// a 64-bit random suffix in base36.
func NewLinkCode(now time.Time) string {
	return fmt.Sprintf("%s-%s-%s",
		linkCodePrefix,
		strconv.FormatInt(now.UnixMilli(), 36),
		strconv.FormatUint(rand.Uint64(), 36), //nolint:gosec
	)
}
