package entity

type Status string

const (
	StatusNew              Status = "NEW"
	StatusOrdered          Status = "ORDERED"
	StatusShippedFromStore Status = "SHIPPED_FROM_STORE"
	StatusArrivedAtOffice  Status = "ARRIVED_AT_OFFICE"
	StatusStored           Status = "STORED"
	StatusCompleted        Status = "COMPLETED"
	StatusOutForDelivery   Status = "OUT_FOR_DELIVERY"
	StatusCancelled        Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusOrdered, StatusShippedFromStore, StatusArrivedAtOffice,
		StatusStored, StatusCompleted, StatusOutForDelivery, StatusCancelled:
		return true
	}
	return false
}
