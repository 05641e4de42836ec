package registry

import (
	"github.com/nspcc-dev/coldchain-contract/contracts/registry/registryconst"
)

const (
	// NotFoundError is returned if the addressed item is missing.
	NotFoundError = registryconst.NotFoundError
)
