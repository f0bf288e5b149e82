package mapper

import "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"

var Clients = Codec[*entity.Client]{
	Kind: entity.KindClient,
	ToDomain: func(row Row) (*entity.Client, error) {
		r := newReader(entity.KindClient, row)
		c := &entity.Client{
			ID:        r.id("id"),
			DisplayID: r.int("display_id"),
			Name:      r.str("name"),
			Phone:     r.str("phone"),
			City:      r.str("city"),
			Address:   r.str("address"),
			Notes:     r.str("notes"),
			CreatedAt: r.time("created_at"),
		}
		if r.err != nil {
			return nil, r.err
		}
		return c, nil
	},
	ToRaw: func(c *entity.Client) Row {
		return Row{
			"id":         c.ID,
			"display_id": c.DisplayID,
			"name":       c.Name,
			"phone":      c.Phone,
			"city":       c.City,
			"address":    c.Address,
			"notes":      c.Notes,
			"created_at": c.CreatedAt,
		}
	},
}

var Stores = Codec[*entity.Store]{
	Kind: entity.KindStore,
	ToDomain: func(row Row) (*entity.Store, error) {
		r := newReader(entity.KindStore, row)
		s := &entity.Store{
			ID:        r.id("id"),
			DisplayID: r.int("display_id"),
			Name:      r.str("name"),
			URL:       r.str("url"),
			Country:   r.str("country"),
		}
		if r.err != nil {
			return nil, r.err
		}
		return s, nil
	},
	ToRaw: func(s *entity.Store) Row {
		return Row{
			"id":         s.ID,
			"display_id": s.DisplayID,
			"name":       s.Name,
			"url":        s.URL,
			"country":    s.Country,
		}
	},
}

var Shipments = Codec[*entity.Shipment]{
	Kind: entity.KindShipment,
	ToDomain: func(row Row) (*entity.Shipment, error) {
		r := newReader(entity.KindShipment, row)
		s := &entity.Shipment{
			ID:             r.id("id"),
			DisplayID:      r.int("display_id"),
			Carrier:        r.str("carrier"),
			TrackingNumber: r.str("tracking_number"),
			WeightGrams:    r.int("weight_grams"),
			ShippedAt:      r.timePtr("shipped_at"),
		}
		if r.err != nil {
			return nil, r.err
		}
		return s, nil
	},
	ToRaw: func(s *entity.Shipment) Row {
		return Row{
			"id":              s.ID,
			"display_id":      s.DisplayID,
			"carrier":         s.Carrier,
			"tracking_number": s.TrackingNumber,
			"weight_grams":    s.WeightGrams,
			"shipped_at":      timeValue(s.ShippedAt),
		}
	},
}

// ToDomainAll maps rows in order and stops at the first contract violation.
func ToDomainAll[T any](c Codec[T], rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		e, err := c.ToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
