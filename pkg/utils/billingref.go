package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewInvoiceNumber returns a globally unique invoice reference.
// Format: INV-SUB-<unix-millis>-<short uuid fragment>.
func NewInvoiceNumber() string {
	frag := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("INV-SUB-%d-%s", time.Now().UnixMilli(), frag)
}

// NewCartID returns the locally generated correlation id sent to the
// gateway with a payment request. Kept under 64 chars for gateway limits.
func NewCartID() string {
	return fmt.Sprintf("SUB-%s", uuid.NewString())
}

func NowUnixSeconds() int64 { return time.Now().Unix() }
