// Package access contains RPC wrappers for ColdChain Access contract.
package access

import (
	"errors"
	"fmt"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// IngestionAgentSetEvent represents "IngestionAgentSet" event emitted by the contract.
type IngestionAgentSetEvent struct {
	Agent util.Uint160
	Allowed bool
}

// RegulatorSetEvent represents "RegulatorSet" event emitted by the contract.
type RegulatorSetEvent struct {
	Regulator util.Uint160
	Allowed bool
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
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

// Admin invokes `admin` method of contract.
func (c *ContractReader) Admin() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "admin"))
}

// IsIngestionAgent invokes `isIngestionAgent` method of contract.
func (c *ContractReader) IsIngestionAgent(identity util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isIngestionAgent", identity))
}

// IsRegulator invokes `isRegulator` method of contract.
func (c *ContractReader) IsRegulator(identity util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isRegulator", identity))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// SetIngestionAgent creates a transaction invoking `setIngestionAgent` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetIngestionAgent(agent util.Uint160, allowed bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setIngestionAgent", agent, allowed)
}

// SetIngestionAgentTransaction creates a transaction invoking `setIngestionAgent` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetIngestionAgentTransaction(agent util.Uint160, allowed bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setIngestionAgent", agent, allowed)
}

// SetIngestionAgentUnsigned creates a transaction invoking `setIngestionAgent` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetIngestionAgentUnsigned(agent util.Uint160, allowed bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setIngestionAgent", nil, agent, allowed)
}

// SetRegulator creates a transaction invoking `setRegulator` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetRegulator(reg util.Uint160, allowed bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setRegulator", reg, allowed)
}

// SetRegulatorTransaction creates a transaction invoking `setRegulator` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetRegulatorTransaction(reg util.Uint160, allowed bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setRegulator", reg, allowed)
}

// SetRegulatorUnsigned creates a transaction invoking `setRegulator` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetRegulatorUnsigned(reg util.Uint160, allowed bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setRegulator", nil, reg, allowed)
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

// IngestionAgentSetEventsFromApplicationLog retrieves a set of all emitted events
// with "IngestionAgentSet" name from the provided [result.ApplicationLog].
func IngestionAgentSetEventsFromApplicationLog(log *result.ApplicationLog) ([]*IngestionAgentSetEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*IngestionAgentSetEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "IngestionAgentSet" {
				continue
			}
			event := new(IngestionAgentSetEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize IngestionAgentSetEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to IngestionAgentSetEvent or
// returns an error if it's not possible to do to so.
func (e *IngestionAgentSetEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Agent, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Agent: %w", err)
	}

	index++
	e.Allowed, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Allowed: %w", err)
	}

	return nil
}

// RegulatorSetEventsFromApplicationLog retrieves a set of all emitted events
// with "RegulatorSet" name from the provided [result.ApplicationLog].
func RegulatorSetEventsFromApplicationLog(log *result.ApplicationLog) ([]*RegulatorSetEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*RegulatorSetEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "RegulatorSet" {
				continue
			}
			event := new(RegulatorSetEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize RegulatorSetEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to RegulatorSetEvent or
// returns an error if it's not possible to do to so.
func (e *RegulatorSetEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Regulator, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Regulator: %w", err)
	}

	index++
	e.Allowed, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Allowed: %w", err)
	}

	return nil
}
