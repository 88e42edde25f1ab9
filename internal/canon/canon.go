// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/gowebpki/jcs"
)

// Round2 rounds to two decimals. Scores and confidences are rounded before
// serialization so repeated runs emit identical bytes.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Digest returns the hex-encoded SHA-256 of the RFC 8785 canonical JSON form
// of v. Values with the same logical content digest identically regardless of
// map iteration order or insertion history.
func Digest(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal for digest: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize for digest: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
