package lirapay

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewExternalRef generates the correlation id sent to the gateway so the
// transaction can be matched back to the local checkout attempt.
func NewExternalRef() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("rifa_%d_%s", time.Now().UnixMilli(), suffix)
}
