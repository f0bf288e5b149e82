package entity

import "time"

type Client struct {
	ID        string    `json:"id"`
	DisplayID int64     `json:"display_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) EntityID() string {
	return c.ID
}

func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Store is the shop an order was purchased from.
type Store struct {
	ID        string
	DisplayID int64
	Name      string
	URL       string
	Country   string
}

func (s *Store) EntityID() string {
	return s.ID
}

func (s *Store) Clone() *Store {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

type Shipment struct {
	ID             string
	DisplayID      int64
	Carrier        string
	TrackingNumber string
	WeightGrams    int64
	ShippedAt      *time.Time
}

func (s *Shipment) EntityID() string {
	return s.ID
}

func (s *Shipment) Clone() *Shipment {
	if s == nil {
		return nil
	}
	cp := *s
	cp.ShippedAt = cloneTime(s.ShippedAt)
	return &cp
}
