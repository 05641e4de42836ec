package registry

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/coldchain-contract/common"
	"github.com/nspcc-dev/coldchain-contract/contracts/registry/itemstatus"
	cst "github.com/nspcc-dev/coldchain-contract/contracts/registry/registryconst"
)

// Item groups everything the contract tracks about a single physical unit.
// Owner is the current custodian; it starts equal to Manufacturer and moves
// with custody transfers, while Manufacturer never changes.
type Item struct {
	Manufacturer interop.Hash160
	Owner        interop.Hash160
	SKU          string
	MetadataURI  string
	CreatedAt    int
	Status       itemstatus.Type
	Certified    bool
}

const (
	accessContractKey = "accessScriptHash"

	itemCountKey = "itemCount"

	itemKeyPrefix  = 'x'
	idKeyPrefix    = 'i'
	ownerKeyPrefix = 'o'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]any)

	accessContract := args[0].(interop.Hash160)
	if len(accessContract) != interop.Hash160Len {
		panic("incorrect length of access contract script hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, accessContractKey, accessContract)

	runtime.Log("registry contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("registry contract updated")
}

// Register method creates a new item record with the next free numeric
// identifier and returns that identifier. The owner becomes both the
// manufacturer and the first custodian of the item and must witness the
// transaction. SKU must be a non-empty string, metadataURI is opaque to the
// contract and may be empty.
//
// Identifiers start at 1, grow by one per registration and are never reused.
func Register(owner interop.Hash160, sku string, metadataURI string) int {
	if len(owner) != interop.Hash160Len {
		panic(cst.InvalidOwnerError)
	}
	if len(sku) == 0 {
		panic(cst.InvalidSKUError)
	}

	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()

	id := 1
	data := storage.Get(ctx, itemCountKey)
	if data != nil {
		id = data.(int) + 1
	}
	storage.Put(ctx, itemCountKey, id)

	item := Item{
		Manufacturer: owner,
		Owner:        owner,
		SKU:          sku,
		MetadataURI:  metadataURI,
		CreatedAt:    runtime.GetTime(),
		Status:       itemstatus.Created,
		Certified:    false,
	}

	storage.Put(ctx, append([]byte{idKeyPrefix}, common.FixedWidth8(id)...), id)
	addItem(ctx, id, item)

	runtime.Notify("Registered", id, owner, sku, metadataURI, item.CreatedAt)

	return id
}

// TransferCustody method hands the item over to a new custodian. It can be
// invoked only by the current custodian. The manufacturer, status and
// certification mark are not affected. Transfer to the current custodian is
// allowed and still produces a notification.
//
// If the item doesn't exist, it panics with NotFoundError.
func TransferCustody(id int, to interop.Hash160, notes []byte) {
	ctx := storage.GetContext()

	item := getItem(ctx, id)
	if len(item.Owner) == 0 {
		panic(cst.NotFoundError)
	}

	common.CheckOwnerWitness(item.Owner)

	if len(to) != interop.Hash160Len {
		panic(cst.InvalidCustodianError)
	}

	from := item.Owner

	itemListKey := append([]byte{ownerKeyPrefix}, from...)
	itemListKey = append(itemListKey, common.FixedWidth8(id)...)
	storage.Delete(ctx, itemListKey)

	item.Owner = to
	addItem(ctx, id, item)

	runtime.Notify("CustodyTransferred", id, from, to, notes, runtime.GetTime())
}

// UpdateStatus method sets the delivery status of the item. It can be invoked
// by the current custodian or by the manufacturer. Status must be a member of
// the [itemstatus.Type] enum; beyond that any move is legal, including
// repeating the current status.
//
// If the item doesn't exist, it panics with NotFoundError.
func UpdateStatus(id int, status itemstatus.Type, notes []byte) {
	ctx := storage.GetContext()

	item := getItem(ctx, id)
	if len(item.Owner) == 0 {
		panic(cst.NotFoundError)
	}

	if !runtime.CheckWitness(item.Owner) && !runtime.CheckWitness(item.Manufacturer) {
		panic(cst.UpdateAccessError)
	}

	switch status {
	case itemstatus.Created, itemstatus.Shipped, itemstatus.Received, itemstatus.Delivered:
	default:
		panic(cst.UnsupportedStatusError)
	}

	item.Status = status
	common.SetSerialized(ctx, itemKey(common.FixedWidth8(id)), item)

	runtime.Notify("StatusUpdated", id, status, notes, runtime.GetTime())
}

// Certify method marks the item as certified. It can be invoked only by a
// member of the regulator set of the Access contract witnessing the
// transaction. The mark is one-way and certifying an already certified item
// succeeds again, there is no way to withdraw it.
//
// If the item doesn't exist, it panics with NotFoundError.
func Certify(id int, reg interop.Hash160, note []byte) {
	ctx := storage.GetContext()

	item := getItem(ctx, id)
	if len(item.Owner) == 0 {
		panic(cst.NotFoundError)
	}

	accessContract := storage.Get(ctx, accessContractKey).(interop.Hash160)
	if !runtime.CheckWitness(reg) || !contract.Call(accessContract, "isRegulator", contract.ReadOnly, reg).(bool) {
		panic(cst.CertifyAccessError)
	}

	item.Certified = true
	common.SetSerialized(ctx, itemKey(common.FixedWidth8(id)), item)

	runtime.Notify("Certified", id, reg, note, runtime.GetTime())
}

// Get method returns the full item record.
//
// If the item doesn't exist, it panics with NotFoundError.
func Get(id int) Item {
	ctx := storage.GetReadOnlyContext()
	item := getItem(ctx, id)
	if len(item.Owner) == 0 {
		panic(cst.NotFoundError)
	}
	return item
}

// OwnerOf method returns the script hash of the item's current custodian.
//
// If the item doesn't exist, it panics with NotFoundError.
func OwnerOf(id int) interop.Hash160 {
	return Get(id).Owner
}

// ManufacturerOf method returns the script hash of the identity that
// registered the item.
//
// If the item doesn't exist, it panics with NotFoundError.
func ManufacturerOf(id int) interop.Hash160 {
	return Get(id).Manufacturer
}

// Exists method returns true if an item with the given identifier has been
// registered. Unlike the detail reads it never panics.
func Exists(id int) bool {
	ctx := storage.GetReadOnlyContext()
	item := getItem(ctx, id)
	return len(item.Owner) != 0
}

// Count method returns the number of registered items.
func Count() int {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, itemCountKey)
	if data == nil {
		return 0
	}
	return data.(int)
}

// List method returns all item identifiers in registration order.
func List() []int {
	ctx := storage.GetReadOnlyContext()

	var result []int

	it := storage.Find(ctx, []byte{idKeyPrefix}, storage.ValuesOnly)
	for iterator.Next(it) {
		result = append(result, iterator.Value(it).(int))
	}

	return result
}

// ItemsOf iterates over identifiers of all items currently held by the
// specified custodian, in registration order.
func ItemsOf(owner interop.Hash160) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{ownerKeyPrefix}, owner...), storage.ValuesOnly)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func addItem(ctx storage.Context, id int, item Item) {
	id8 := common.FixedWidth8(id)

	itemListKey := append([]byte{ownerKeyPrefix}, item.Owner...)
	itemListKey = append(itemListKey, id8...)
	storage.Put(ctx, itemListKey, id)

	common.SetSerialized(ctx, itemKey(id8), item)
}

func itemKey(id8 []byte) []byte {
	return append([]byte{itemKeyPrefix}, id8...)
}

func getItem(ctx storage.Context, id int) Item {
	data := storage.Get(ctx, itemKey(common.FixedWidth8(id)))
	if data != nil {
		return std.Deserialize(data.([]byte)).(Item)
	}

	return Item{}
}
