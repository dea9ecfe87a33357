// Package snapshot implements deterministic JSON encoding of generated worlds.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nathoo/tilequest/engine/gen"
)

// Version is the snapshot format version.
const Version = 1

// Data is the JSON-serializable snapshot format.
type Data struct {
	Version int `json:"version"`
	*gen.Generated
}

// Encode serializes g. The same world always encodes to the same bytes.
func Encode(g *gen.Generated) ([]byte, error) {
	b, err := json.MarshalIndent(Data{Version: Version, Generated: g}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return b, nil
}

// Digest is a short fingerprint of g's encoding, for comparing runs.
func Digest(g *gen.Generated) (string, error) {
	b, err := Encode(g)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8]), nil
}

// Load deserializes a snapshot written by Encode.
func Load(data []byte) (*gen.Generated, error) {
	d := Data{Generated: &gen.Generated{}}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if d.Version != Version {
		return nil, fmt.Errorf("snapshot version %d, want %d", d.Version, Version)
	}
	g := d.Generated
	if g.World == nil {
		return nil, fmt.Errorf("snapshot has no world")
	}
	if g.Speeches == nil || g.InventoryDescriptions == nil {
		return nil, fmt.Errorf("snapshot has no speech tables")
	}
	return g, nil
}
