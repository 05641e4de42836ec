// Package registry contains RPC wrappers for ColdChain Registry contract.
package registry

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
	"unicode/utf8"
)

// RegistryItem is a contract-specific registry.Item type used by its methods.
type RegistryItem struct {
	Manufacturer util.Uint160
	Owner util.Uint160
	SKU string
	MetadataURI string
	CreatedAt *big.Int
	Status *big.Int
	Certified bool
}

// RegisteredEvent represents "Registered" event emitted by the contract.
type RegisteredEvent struct {
	Id *big.Int
	Manufacturer util.Uint160
	Sku string
	MetadataURI string
	Timestamp *big.Int
}

// CustodyTransferredEvent represents "CustodyTransferred" event emitted by the contract.
type CustodyTransferredEvent struct {
	Id *big.Int
	From util.Uint160
	To util.Uint160
	Notes []byte
	Timestamp *big.Int
}

// StatusUpdatedEvent represents "StatusUpdated" event emitted by the contract.
type StatusUpdatedEvent struct {
	Id *big.Int
	Status *big.Int
	Notes []byte
	Timestamp *big.Int
}

// CertifiedEvent represents "Certified" event emitted by the contract.
type CertifiedEvent struct {
	Id *big.Int
	Regulator util.Uint160
	Note []byte
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

// Count invokes `count` method of contract.
func (c *ContractReader) Count() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "count"))
}

// Exists invokes `exists` method of contract.
func (c *ContractReader) Exists(id *big.Int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "exists", id))
}

// Get invokes `get` method of contract.
func (c *ContractReader) Get(id *big.Int) (*RegistryItem, error) {
	return itemToRegistryItem(unwrap.Item(c.invoker.Call(c.hash, "get", id)))
}

// ItemsOf invokes `itemsOf` method of contract.
func (c *ContractReader) ItemsOf(owner util.Uint160) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "itemsOf", owner))
}

// ItemsOfExpanded is similar to ItemsOf (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ItemsOfExpanded(owner util.Uint160, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "itemsOf", _numOfIteratorItems, owner))
}

// List invokes `list` method of contract.
func (c *ContractReader) List() ([]*big.Int, error) {
	return unwrap.ArrayOfBigInts(c.invoker.Call(c.hash, "list"))
}

// ManufacturerOf invokes `manufacturerOf` method of contract.
func (c *ContractReader) ManufacturerOf(id *big.Int) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "manufacturerOf", id))
}

// OwnerOf invokes `ownerOf` method of contract.
func (c *ContractReader) OwnerOf(id *big.Int) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "ownerOf", id))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Certify creates a transaction invoking `certify` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Certify(id *big.Int, reg util.Uint160, note []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "certify", id, reg, note)
}

// CertifyTransaction creates a transaction invoking `certify` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CertifyTransaction(id *big.Int, reg util.Uint160, note []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "certify", id, reg, note)
}

// CertifyUnsigned creates a transaction invoking `certify` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CertifyUnsigned(id *big.Int, reg util.Uint160, note []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "certify", nil, id, reg, note)
}

// Register creates a transaction invoking `register` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Register(owner util.Uint160, sku string, metadataURI string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "register", owner, sku, metadataURI)
}

// RegisterTransaction creates a transaction invoking `register` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterTransaction(owner util.Uint160, sku string, metadataURI string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "register", owner, sku, metadataURI)
}

// RegisterUnsigned creates a transaction invoking `register` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterUnsigned(owner util.Uint160, sku string, metadataURI string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "register", nil, owner, sku, metadataURI)
}

// TransferCustody creates a transaction invoking `transferCustody` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferCustody(id *big.Int, to util.Uint160, notes []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferCustody", id, to, notes)
}

// TransferCustodyTransaction creates a transaction invoking `transferCustody` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferCustodyTransaction(id *big.Int, to util.Uint160, notes []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferCustody", id, to, notes)
}

// TransferCustodyUnsigned creates a transaction invoking `transferCustody` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferCustodyUnsigned(id *big.Int, to util.Uint160, notes []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferCustody", nil, id, to, notes)
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

// UpdateStatus creates a transaction invoking `updateStatus` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateStatus(id *big.Int, status *big.Int, notes []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateStatus", id, status, notes)
}

// UpdateStatusTransaction creates a transaction invoking `updateStatus` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateStatusTransaction(id *big.Int, status *big.Int, notes []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateStatus", id, status, notes)
}

// UpdateStatusUnsigned creates a transaction invoking `updateStatus` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateStatusUnsigned(id *big.Int, status *big.Int, notes []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateStatus", nil, id, status, notes)
}

// itemToRegistryItem converts stack item into *RegistryItem.
func itemToRegistryItem(item stackitem.Item, err error) (*RegistryItem, error) {
	if err != nil {
		return nil, err
	}
	var res = new(RegistryItem)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of RegistryItem from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *RegistryItem) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 7 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Manufacturer, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Manufacturer: %w", err)
	}

	index++
	res.Owner, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	res.SKU, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field SKU: %w", err)
	}

	index++
	res.MetadataURI, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field MetadataURI: %w", err)
	}

	index++
	res.CreatedAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field CreatedAt: %w", err)
	}

	index++
	res.Status, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}

	index++
	res.Certified, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Certified: %w", err)
	}

	return nil
}

// RegisteredEventsFromApplicationLog retrieves a set of all emitted events
// with "Registered" name from the provided [result.ApplicationLog].
func RegisteredEventsFromApplicationLog(log *result.ApplicationLog) ([]*RegisteredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*RegisteredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Registered" {
				continue
			}
			event := new(RegisteredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize RegisteredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to RegisteredEvent or
// returns an error if it's not possible to do to so.
func (e *RegisteredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
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
	e.Manufacturer, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Manufacturer: %w", err)
	}

	index++
	e.Sku, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Sku: %w", err)
	}

	index++
	e.MetadataURI, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field MetadataURI: %w", err)
	}

	index++
	e.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}

// CustodyTransferredEventsFromApplicationLog retrieves a set of all emitted events
// with "CustodyTransferred" name from the provided [result.ApplicationLog].
func CustodyTransferredEventsFromApplicationLog(log *result.ApplicationLog) ([]*CustodyTransferredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*CustodyTransferredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "CustodyTransferred" {
				continue
			}
			event := new(CustodyTransferredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize CustodyTransferredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to CustodyTransferredEvent or
// returns an error if it's not possible to do to so.
func (e *CustodyTransferredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
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
	e.From, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field From: %w", err)
	}

	index++
	e.To, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field To: %w", err)
	}

	index++
	e.Notes, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Notes: %w", err)
	}

	index++
	e.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}

// StatusUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "StatusUpdated" name from the provided [result.ApplicationLog].
func StatusUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*StatusUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*StatusUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "StatusUpdated" {
				continue
			}
			event := new(StatusUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize StatusUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to StatusUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *StatusUpdatedEvent) FromStackItem(item *stackitem.Array) error {
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
	e.Status, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}

	index++
	e.Notes, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Notes: %w", err)
	}

	index++
	e.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}

// CertifiedEventsFromApplicationLog retrieves a set of all emitted events
// with "Certified" name from the provided [result.ApplicationLog].
func CertifiedEventsFromApplicationLog(log *result.ApplicationLog) ([]*CertifiedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*CertifiedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Certified" {
				continue
			}
			event := new(CertifiedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize CertifiedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to CertifiedEvent or
// returns an error if it's not possible to do to so.
func (e *CertifiedEvent) FromStackItem(item *stackitem.Array) error {
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
	e.Note, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Note: %w", err)
	}

	index++
	e.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}
