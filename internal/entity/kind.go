package entity

type Kind string

const (
	KindOrder    Kind = "order"
	KindClient   Kind = "client"
	KindStore    Kind = "store"
	KindShipment Kind = "shipment"
)

var Kinds = []Kind{KindOrder, KindClient, KindStore, KindShipment}

func (k Kind) Valid() bool {
	switch k {
	case KindOrder, KindClient, KindStore, KindShipment:
		return true
	}
	return false
}

// Entity is implemented by every server-owned record the cache holds.
// Clone must return a copy that shares no mutable state with the receiver.
type Entity[T any] interface {
	EntityID() string
	Clone() T
}
