// Package anchor contains RPC wrappers for ColdChain Anchor contract.
package anchor

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// WindowCommittedEvent represents "WindowCommitted" event emitted by the contract.
type WindowCommittedEvent struct {
	Id *big.Int
	WindowIdx *big.Int
	Digest util.Uint256
	Timestamp *big.Int
}

// SealedEvent represents "Sealed" event emitted by the contract.
type SealedEvent struct {
	Id *big.Int
	FinalRoot util.Uint256
	Timestamp *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// IsSealed invokes `isSealed` method of contract.
func (c *ContractReader) IsSealed(id *big.Int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isSealed", id))
}

// IterateWindows invokes `iterateWindows` method of contract.
func (c *ContractReader) IterateWindows(id *big.Int) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateWindows", id))
}

// IterateWindowsExpanded is similar to IterateWindows (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) IterateWindowsExpanded(id *big.Int, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateWindows", _numOfIteratorItems, id))
}

// LastWindow invokes `lastWindow` method of contract.
func (c *ContractReader) LastWindow(id *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "lastWindow", id))
}

// SealedAt invokes `sealedAt` method of contract.
func (c *ContractReader) SealedAt(id *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "sealedAt", id))
}

// SealedRoot invokes `sealedRoot` method of contract.
func (c *ContractReader) SealedRoot(id *big.Int) (util.Uint256, error) {
	return unwrap.Uint256(c.invoker.Call(c.hash, "sealedRoot", id))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// WindowRoot invokes `windowRoot` method of contract.
func (c *ContractReader) WindowRoot(id *big.Int, windowIdx *big.Int) (util.Uint256, error) {
	return unwrap.Uint256(c.invoker.Call(c.hash, "windowRoot", id, windowIdx))
}

// CommitWindow creates a transaction invoking `commitWindow` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CommitWindow(id *big.Int, windowIdx *big.Int, digest util.Uint256, agent util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "commitWindow", id, windowIdx, digest, agent)
}

// CommitWindowTransaction creates a transaction invoking `commitWindow` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CommitWindowTransaction(id *big.Int, windowIdx *big.Int, digest util.Uint256, agent util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "commitWindow", id, windowIdx, digest, agent)
}

// CommitWindowUnsigned creates a transaction invoking `commitWindow` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CommitWindowUnsigned(id *big.Int, windowIdx *big.Int, digest util.Uint256, agent util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "commitWindow", nil, id, windowIdx, digest, agent)
}

// Seal creates a transaction invoking `seal` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Seal(id *big.Int, finalRoot util.Uint256) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "seal", id, finalRoot)
}

// SealTransaction creates a transaction invoking `seal` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SealTransaction(id *big.Int, finalRoot util.Uint256) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "seal", id, finalRoot)
}

// SealUnsigned creates a transaction invoking `seal` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SealUnsigned(id *big.Int, finalRoot util.Uint256) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "seal", nil, id, finalRoot)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// WindowCommittedEventsFromApplicationLog retrieves a set of all emitted events
// with "WindowCommitted" name from the provided [result.ApplicationLog].
func WindowCommittedEventsFromApplicationLog(log *result.ApplicationLog) ([]*WindowCommittedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*WindowCommittedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "WindowCommitted" {
				continue
			}
			event := new(WindowCommittedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize WindowCommittedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to WindowCommittedEvent or
// returns an error if it's not possible to do to so.
func (e *WindowCommittedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Id, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Id: %w", err)
	}

	index++
	e.WindowIdx, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field WindowIdx: %w", err)
	}

	index++
	e.Digest, err = func (item stackitem.Item) (util.Uint256, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint256{}, err
		}
		u, err := util.Uint256DecodeBytesBE(b)
		if err != nil {
			return util.Uint256{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Digest: %w", err)
	}

	index++
	e.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}

// SealedEventsFromApplicationLog retrieves a set of all emitted events
// with "Sealed" name from the provided [result.ApplicationLog].
func SealedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SealedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*SealedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Sealed" {
				continue
			}
			event := new(SealedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize SealedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to SealedEvent or
// returns an error if it's not possible to do to so.
func (e *SealedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Id, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Id: %w", err)
	}

	index++
	e.FinalRoot, err = func (item stackitem.Item) (util.Uint256, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint256{}, err
		}
		u, err := util.Uint256DecodeBytesBE(b)
		if err != nil {
			return util.Uint256{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field FinalRoot: %w", err)
	}

	index++
	e.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}
