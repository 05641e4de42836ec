package itemstatus

// Type is an enumeration for item delivery statuses.
type Type int

// Various item delivery statuses. The set is flat: any member may follow any
// other, the contract validates membership only.
const (
	// Created stands for items that have been registered but not yet
	// handed over to a carrier.
	Created Type = iota

	// Shipped stands for items in transit.
	Shipped

	// Received stands for items accepted at an intermediate destination.
	Received

	// Delivered stands for items accepted at the final destination.
	Delivered
)
