// File: models/location.go
package models

import "time"

// LocationSample is one GPS reading. Immutable once written; City may be
// filled in later by the best-effort geocode enrichment.
type LocationSample struct {
	Latitude       float64   `bson:"latitude" json:"latitude"`
	Longitude      float64   `bson:"longitude" json:"longitude"`
	AccuracyMeters float64   `bson:"accuracy" json:"accuracy"`
	CapturedAt     time.Time `bson:"capturedAt" json:"capturedAt"`
	City           string    `bson:"city,omitempty" json:"city,omitempty"`
	LinkedOrderID  string    `bson:"linkedOrderId,omitempty" json:"linkedOrderId,omitempty"`
}

// LiveLocation is the single mutable per-technician record, always
// overwritten with the freshest sample.
type LiveLocation struct {
	Technician string         `bson:"_id" json:"technician"`
	Sample     LocationSample `bson:"sample" json:"sample"`
	UpdatedAt  time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// LocationHistoryEntry is one admitted point of the append-only trail.
type LocationHistoryEntry struct {
	ID         string         `bson:"id" json:"id"`
	Technician string         `bson:"technician" json:"technician"`
	Sample     LocationSample `bson:"sample" json:"sample"`
	CreatedAt  time.Time      `bson:"createdAt" json:"createdAt"`
}
