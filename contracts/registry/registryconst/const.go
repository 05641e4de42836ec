package registryconst

const (
	// NotFoundError is returned if an item is missing.
	NotFoundError = "item does not exist"

	// InvalidOwnerError is returned on attempt to register an item with a
	// malformed owner identity.
	InvalidOwnerError = "invalid owner"

	// InvalidSKUError is returned on attempt to register an item with an
	// empty SKU.
	InvalidSKUError = "invalid sku"

	// InvalidCustodianError is returned on attempt to transfer custody to a
	// malformed identity.
	InvalidCustodianError = "invalid custodian"

	// UnsupportedStatusError is returned on attempt to set a status outside
	// the itemstatus enum.
	UnsupportedStatusError = "unsupported status"

	// UpdateAccessError is returned when a status update comes from an
	// identity which is neither the item's custodian nor its manufacturer.
	UpdateAccessError = "status update access denied"

	// CertifyAccessError is returned when certification comes from an
	// identity outside the regulator set.
	CertifyAccessError = "certification access denied"
)
