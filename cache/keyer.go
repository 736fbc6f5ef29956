package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key holds every input that influences a rendered artifact. Two requests
// that may legitimately see different artifacts must differ in at least one
// field, which is why the caller's Audience and the catalog fingerprint are
// part of the key.
type Key struct {
	Topic    string `json:"topic"`
	Depth    string `json:"depth"`
	Theme    string `json:"theme"`
	Format   string `json:"format"`
	Page     int    `json:"page"`
	Width    int    `json:"width"`
	FontSize int    `json:"font_size"`
	Audience string `json:"audience"`
	Catalog  string `json:"catalog"`
}

// Keyer derives storage keys from render inputs.
//
// Contract:
//   - Determinism: equal Keys must produce equal strings.
//   - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(k Key) (string, error)
}

// DefaultKeyer generates SHA-256 based keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic key.
// Format: render:<depth>:<hash>
// where hash is the first 16 hex characters of SHA-256(JSON(k)).
func (DefaultKeyer) Key(k Key) (string, error) {
	if k.Topic == "" || k.Depth == "" {
		return "", fmt.Errorf("%w: topic and depth are required", ErrInvalidKey)
	}

	// Struct fields encode in declaration order, so the JSON is canonical.
	canonical, err := json.Marshal(k)
	if err != nil {
		return "", fmt.Errorf("cache: encode key: %w", err)
	}

	hash := sha256.Sum256(canonical)
	key := fmt.Sprintf("render:%s:%s", k.Depth, hex.EncodeToString(hash[:8]))
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

var _ Keyer = DefaultKeyer{}
