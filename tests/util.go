package tests

import (
	"math/rand"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func iteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func randomBytes(n int) []byte {
	a := make([]byte, n)
	rand.Read(a) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return a
}

// singleEvent checks that exactly one notification with the given name was
// emitted and returns its payload. Payloads carrying block timestamps can't
// be compared as whole arrays, so callers check fields one by one.
func singleEvent(t *testing.T, aer *state.AppExecResult, name string) []stackitem.Item {
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, name, aer.Events[0].Name)

	items, ok := aer.Events[0].Item.Value().([]stackitem.Item)
	require.True(t, ok)
	return items
}
