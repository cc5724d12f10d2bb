package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewOrderID builds a gateway order id: PREFIX-<unix millis>-<random>.
// The random suffix makes ids unguessable and unique even for two
// purchases initiated in the same millisecond.
func NewOrderID(prefix string) string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to the nanosecond clock rather than aborting a sale.
		return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), time.Now().UnixNano()%1_000_000)
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(buf))
}
