package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
)

// RenderKeyOpts are the inputs that change a rendered artifact.
type RenderKeyOpts struct {
	Format      string  `json:"format"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	ActivePlate int     `json:"active_plate"`
	ActiveGroup string  `json:"active_group,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Focus       int     `json:"focus,omitempty"`
	NoLabels    bool    `json:"no_labels,omitempty"`
	NoHelpers   bool    `json:"no_helpers,omitempty"`
}

// RenderKey derives the cache key for one rendered artifact.
func RenderKey(plates []plate.Dimension, groups []socket.Group, opts RenderKeyOpts) string {
	return hashKey("render", plates, groups, opts)
}

// hashKey generates a cache key of the form prefix:sha256(parts).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes the SHA-256 of data as 64 hex chars.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
