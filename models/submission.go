// File: models/submission.go
package models

import "time"

// OrderType distinguishes the two vendor programmes a technician files under.
type OrderType string

const (
	OrderTypePrimary   OrderType = "primary"
	OrderTypeSecondary OrderType = "secondary"
)

// Valid reports whether t is one of the known order types.
func (t OrderType) Valid() bool {
	return t == OrderTypePrimary || t == OrderTypeSecondary
}

// WorkOrderSubmission is one technician's service report. OrderID is the
// idempotency key: it is the remote document id within the
// (technician, date, type) partition, so re-delivery overwrites rather
// than duplicates.
type WorkOrderSubmission struct {
	OrderID          string          `bson:"orderId" json:"orderId"`
	Technician       string          `bson:"technician" json:"technician"`
	OrderType        OrderType       `bson:"orderType" json:"orderType"`
	ClientName       string          `bson:"clientName" json:"clientName"`
	DefectCode       string          `bson:"defectCode" json:"defectCode"`
	RepairCode       string          `bson:"repairCode" json:"repairCode"`
	ReplacedPart     string          `bson:"replacedPart,omitempty" json:"replacedPart,omitempty"`
	Notes            string          `bson:"notes,omitempty" json:"notes,omitempty"`
	ApprovedBudget   float64         `bson:"approvedBudget,omitempty" json:"approvedBudget,omitempty"`
	CleaningDone     bool            `bson:"cleaningDone" json:"cleaningDone"`
	CreatedAtLocal   time.Time       `bson:"createdAtLocal" json:"createdAtLocal"`
	DeliveredAt      time.Time       `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	LocationSample   *LocationSample `bson:"locationSample,omitempty" json:"locationSample,omitempty"`
}

// DateString is the partition key for the ordersByDate hierarchy.
func (s WorkOrderSubmission) DateString() string {
	return s.CreatedAtLocal.Format("2006-01-02")
}

// AggregateDelta is the numeric contribution one submission makes to the
// technician's running statistics.
type AggregateDelta struct {
	OrderID        string    `json:"orderId"`
	OrderType      OrderType `json:"orderType"`
	ApprovedBudget float64   `json:"approvedBudget"`
	Cleaning       bool      `json:"cleaning"`
}

// DeltaFor derives the aggregate contribution of a submission.
func DeltaFor(s WorkOrderSubmission) AggregateDelta {
	return AggregateDelta{
		OrderID:        s.OrderID,
		OrderType:      s.OrderType,
		ApprovedBudget: s.ApprovedBudget,
		Cleaning:       s.CleaningDone,
	}
}
