package checkout

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

// MetadataKey is the provider metadata key under which the serialized
// snapshot travels.
const MetadataKey = "checkout_snapshot"

// ErrMissingSnapshot is returned when a provider session carries no
// decodable snapshot in its metadata.
var ErrMissingSnapshot = errors.New("checkout snapshot missing from session metadata")

// Snapshot freezes the priced cart at session-creation time. It is created
// once, attached to the external payment request as opaque metadata, and
// read back verbatim during reconciliation. It is the authoritative source
// for order creation; the live cart and the coupon table must not be
// consulted again, since both may have changed by the time payment confirms.
type Snapshot struct {
	UserID string `json:"user_id"`
	// Lines hold original per-unit prices in minor units, before discount.
	Lines      []SnapshotLine `json:"lines"`
	CouponCode string         `json:"coupon_code,omitempty"`
	// TotalMinorUnits is the post-discount total the session was created for.
	TotalMinorUnits int64 `json:"total_minor_units"`
}

// SnapshotLine is one frozen cart line.
type SnapshotLine struct {
	ProductID           string `json:"product_id"`
	Quantity            int    `json:"quantity"`
	UnitPriceMinorUnits int64  `json:"unit_price_minor_units"`
}

// EncodeMetadata serializes the snapshot into a provider metadata map.
// Serialization happens only here, at the provider boundary.
func (s *Snapshot) EncodeMetadata() (map[string]string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "marshal snapshot")
	}
	return map[string]string{MetadataKey: string(raw)}, nil
}

// DecodeSnapshot extracts the snapshot from provider metadata.
func DecodeSnapshot(metadata map[string]string) (*Snapshot, error) {
	raw, ok := metadata[MetadataKey]
	if !ok || raw == "" {
		return nil, ErrMissingSnapshot
	}
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, errors.Wrap(ErrMissingSnapshot, err.Error())
	}
	return &s, nil
}
