package model

import "time"

// CustomerRecord is one row of a subscription export.
// A zero CreatedAt means the creation timestamp was missing or unparseable;
// a zero CanceledAt means the customer never canceled.
type CustomerRecord struct {
	CustomerID string    `json:"customer_id"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	CanceledAt time.Time `json:"canceled_at"`
}

// CreatedMonth returns the creation month, or false when it is undefined.
func (c CustomerRecord) CreatedMonth() (MonthKey, bool) {
	if c.CreatedAt.IsZero() {
		return MonthKey{}, false
	}
	return MonthOf(c.CreatedAt), true
}

// CanceledMonth returns the cancellation month, or false for active customers.
func (c CustomerRecord) CanceledMonth() (MonthKey, bool) {
	if c.CanceledAt.IsZero() {
		return MonthKey{}, false
	}
	return MonthOf(c.CanceledAt), true
}

func (c CustomerRecord) Canceled() bool { return !c.CanceledAt.IsZero() }

// CanceledCustomer is a row of the canceled-customer email export.
type CanceledCustomer struct {
	Email      string    `json:"email"`
	CanceledAt time.Time `json:"canceled_at"`
}
