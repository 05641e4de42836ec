package registry

import (
	"math/big"

	"github.com/nspcc-dev/coldchain-contract/contracts/registry/itemstatus"
)

// Possible item statuses in [RegistryItem].
var (
	// StatusCreated is used by freshly registered items.
	StatusCreated = big.NewInt(int64(itemstatus.Created))

	// StatusShipped is used by items in transit.
	StatusShipped = big.NewInt(int64(itemstatus.Shipped))

	// StatusReceived is used by items accepted at an intermediate point.
	StatusReceived = big.NewInt(int64(itemstatus.Received))

	// StatusDelivered is used by items that reached their destination.
	StatusDelivered = big.NewInt(int64(itemstatus.Delivered))
)
