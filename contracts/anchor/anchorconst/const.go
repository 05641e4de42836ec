package anchorconst

const (
	// AlreadySealedError is returned on attempt to touch a sealed timeline.
	AlreadySealedError = "timeline is already sealed"

	// OutOfOrderError is returned on attempt to commit a window under any
	// index other than the successor of the last committed one.
	OutOfOrderError = "window index is out of order"

	// CommitAccessError is returned when a window commit comes from an
	// identity outside the ingestion agent set.
	CommitAccessError = "ingestion agent access denied"

	// SealAccessError is returned when a seal comes from an identity which
	// is neither the item's custodian nor its manufacturer.
	SealAccessError = "custodian or manufacturer witness check failed"
)
