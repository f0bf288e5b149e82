package mapper

import "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"

// Orders maps order rows. Absent optional columns default to zero values,
// absent milestones to nil, an absent status to NEW and an absent history to
// an empty log.
var Orders = Codec[*entity.Order]{
	Kind:     entity.KindOrder,
	ToDomain: OrderFromRow,
	ToRaw:    OrderToRow,
}

func OrderFromRow(row Row) (*entity.Order, error) {
	r := newReader(entity.KindOrder, row)
	o := &entity.Order{
		ID:              r.id("id"),
		DisplayID:       r.int("display_id"),
		ClientID:        r.str("client_id"),
		StoreID:         r.str("store_id"),
		ShipmentID:      r.str("shipment_id"),
		Status:          entity.Status(r.str("status")),
		ProductName:     r.str("product_name"),
		ProductURL:      r.str("product_url"),
		Quantity:        r.int("quantity"),
		DeclaredPrice:   r.int("declared_price"),
		Commission:      r.int("commission"),
		ShippingCost:    r.int("shipping_cost"),
		DeliveryCost:    r.int("delivery_cost"),
		AmountPaid:      r.int("amount_paid"),
		TrackingNumber:  r.str("tracking_number"),
		OrderDate:       r.timePtr("order_date"),
		ExpectedArrival: r.timePtr("expected_arrival"),
		ArrivedAt:       r.timePtr("arrived_at"),
		StoredAt:        r.timePtr("stored_at"),
		WithdrawnAt:     r.timePtr("withdrawn_at"),
		History:         r.history("history"),
		Notified:        r.bool("notified"),
		Printed:         r.bool("printed"),
		CreatedAt:       r.time("created_at"),
		UpdatedAt:       r.time("updated_at"),
	}
	if r.err != nil {
		return nil, r.err
	}

	if o.Status == "" {
		o.Status = entity.StatusNew
	}
	if !o.Status.Valid() {
		return nil, &MappingError{Kind: entity.KindOrder, Field: "status", Reason: "unknown status " + string(o.Status)}
	}
	return o, nil
}

func OrderToRow(o *entity.Order) Row {
	return Row{
		"id":               o.ID,
		"display_id":       o.DisplayID,
		"client_id":        o.ClientID,
		"store_id":         o.StoreID,
		"shipment_id":      o.ShipmentID,
		"status":           string(o.Status),
		"product_name":     o.ProductName,
		"product_url":      o.ProductURL,
		"quantity":         o.Quantity,
		"declared_price":   o.DeclaredPrice,
		"commission":       o.Commission,
		"shipping_cost":    o.ShippingCost,
		"delivery_cost":    o.DeliveryCost,
		"amount_paid":      o.AmountPaid,
		"tracking_number":  o.TrackingNumber,
		"order_date":       timeValue(o.OrderDate),
		"expected_arrival": timeValue(o.ExpectedArrival),
		"arrived_at":       timeValue(o.ArrivedAt),
		"stored_at":        timeValue(o.StoredAt),
		"withdrawn_at":     timeValue(o.WithdrawnAt),
		"history":          historyValue(o.History),
		"notified":         o.Notified,
		"printed":          o.Printed,
		"created_at":       o.CreatedAt,
		"updated_at":       o.UpdatedAt,
	}
}
