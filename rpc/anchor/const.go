package anchor

import (
	"github.com/nspcc-dev/coldchain-contract/contracts/anchor/anchorconst"
)

const (
	// AlreadySealedError is returned on any write to a sealed timeline.
	AlreadySealedError = anchorconst.AlreadySealedError

	// OutOfOrderError is returned if the committed window index is not the
	// successor of the last committed one.
	OutOfOrderError = anchorconst.OutOfOrderError
)
