package entity

import "time"

// Order money fields are minor currency units.
type Order struct {
	ID             string
	DisplayID      int64
	ClientID       string
	StoreID        string
	ShipmentID     string
	Status         Status
	ProductName    string
	ProductURL     string
	Quantity       int64
	DeclaredPrice  int64
	Commission     int64
	ShippingCost   int64
	DeliveryCost   int64
	AmountPaid     int64
	TrackingNumber string

	OrderDate       *time.Time
	ExpectedArrival *time.Time
	ArrivedAt       *time.Time
	StoredAt        *time.Time
	WithdrawnAt     *time.Time

	History  History
	Notified bool
	Printed  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) EntityID() string {
	return o.ID
}

func (o *Order) Total() int64 {
	return o.DeclaredPrice + o.Commission + o.ShippingCost + o.DeliveryCost
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.OrderDate = cloneTime(o.OrderDate)
	cp.ExpectedArrival = cloneTime(o.ExpectedArrival)
	cp.ArrivedAt = cloneTime(o.ArrivedAt)
	cp.StoredAt = cloneTime(o.StoredAt)
	cp.WithdrawnAt = cloneTime(o.WithdrawnAt)
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
