// File: models/stats.go
package models

import "time"

// TechnicianStats is the per-technician running aggregate. The membership
// lists are the audit trail: an order id present in OrderIDs has already
// contributed, and replaying it must not change any counter.
type TechnicianStats struct {
	Technician        string    `bson:"_id" json:"technician"`
	TotalOrders       int64     `bson:"totalOrders" json:"totalOrders"`
	PrimaryCount      int64     `bson:"primaryCount" json:"primaryCount"`
	SecondaryCount    int64     `bson:"secondaryCount" json:"secondaryCount"`
	ApprovedBudgetSum float64   `bson:"approvedBudgetSum" json:"approvedBudgetSum"`
	CleaningCount     int64     `bson:"cleaningCount" json:"cleaningCount"`
	OrderIDs          []string  `bson:"orderIds" json:"orderIds"`
	BudgetOrderIDs    []string  `bson:"budgetOrderIds" json:"budgetOrderIds"`
	CleaningOrderIDs  []string  `bson:"cleaningOrderIds" json:"cleaningOrderIds"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}
