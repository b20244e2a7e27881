package records

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// DedupKey derives the stable content hash identifying one real-world
// movement. Two rows with the same operation date, resource, origin,
// destination, and quantity (rounded to 3 decimals) are the same event and
// must not both be stored. The hash is computed over the lowercased
// pipe-join so that header casing and cell casing never split an event in
// two.
func DedupKey(operationDate time.Time, resource, origin, destination string, quantity float64) string {
	joined := strings.ToLower(strings.Join([]string{
		operationDate.Format("2006-01-02"),
		resource,
		origin,
		destination,
		fmt.Sprintf("%.3f", quantity),
	}, "|"))

	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}
