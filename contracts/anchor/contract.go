package anchor

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/coldchain-contract/common"
	cst "github.com/nspcc-dev/coldchain-contract/contracts/anchor/anchorconst"
	rcst "github.com/nspcc-dev/coldchain-contract/contracts/registry/registryconst"
)

// SealRecord is the closing record of an item timeline: the aggregated root
// digest handed in by the sealer and the block timestamp of sealing.
type SealRecord struct {
	Root     interop.Hash256
	SealedAt int
}

const (
	registryContractKey = "registryScriptHash"
	accessContractKey   = "accessScriptHash"

	windowKeyPrefix = 'w'
	lastKeyPrefix   = 'l'
	sealKeyPrefix   = 's'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]any)

	registryContract := args[0].(interop.Hash160)
	if len(registryContract) != interop.Hash160Len {
		panic("incorrect length of registry contract script hash")
	}

	accessContract := args[1].(interop.Hash160)
	if len(accessContract) != interop.Hash160Len {
		panic("incorrect length of access contract script hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, registryContractKey, registryContract)
	storage.Put(ctx, accessContractKey, accessContract)

	runtime.Log("anchor contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("anchor contract updated")
}

// CommitWindow method appends the digest of one monitoring window to the
// item timeline. It can be invoked only by a member of the ingestion agent
// set of the Access contract witnessing the transaction. Window indices are
// 1-based and must arrive strictly one by one: the only index the timeline
// accepts is the successor of the last committed one, so replays and skips
// both fail with OutOfOrderError. The digest content is not inspected, the
// contract trusts the agent's hash computation entirely.
//
// If the item is not registered, it panics with registryconst.NotFoundError.
// If the timeline has been sealed, it panics with AlreadySealedError.
func CommitWindow(id int, windowIdx int, digest interop.Hash256, agent interop.Hash160) {
	ctx := storage.GetContext()
	requireItem(ctx, id)

	id8 := common.FixedWidth8(id)

	if storage.Get(ctx, sealKey(id8)) != nil {
		panic(cst.AlreadySealedError)
	}

	accessContract := storage.Get(ctx, accessContractKey).(interop.Hash160)
	if !runtime.CheckWitness(agent) || !contract.Call(accessContract, "isIngestionAgent", contract.ReadOnly, agent).(bool) {
		panic(cst.CommitAccessError)
	}

	if windowIdx != lastWindow(ctx, id8)+1 {
		panic(cst.OutOfOrderError)
	}

	storage.Put(ctx, windowKey(id8, windowIdx), digest)
	storage.Put(ctx, lastKey(id8), windowIdx)

	runtime.Notify("WindowCommitted", id, windowIdx, digest, runtime.GetTime())
}

// Seal method closes the item timeline for good: no window can be committed
// and no other root can be recorded for the item afterwards. It can be
// invoked by the item's current custodian or by its manufacturer. Sealing an
// empty timeline is legal.
//
// The contract records finalRoot as given and performs no check linking it
// to the committed window digests. Proving that the root genuinely
// aggregates the timeline is the job of an external zero-knowledge verifier
// which takes SealedRoot as its public input; the chain only fixes what was
// claimed and when.
//
// If the item is not registered, it panics with registryconst.NotFoundError.
// If the timeline has been sealed before, it panics with AlreadySealedError.
func Seal(id int, finalRoot interop.Hash256) {
	ctx := storage.GetContext()
	requireItem(ctx, id)

	registryContract := storage.Get(ctx, registryContractKey).(interop.Hash160)

	id8 := common.FixedWidth8(id)

	if storage.Get(ctx, sealKey(id8)) != nil {
		panic(cst.AlreadySealedError)
	}

	owner := contract.Call(registryContract, "ownerOf", contract.ReadOnly, id).(interop.Hash160)
	manufacturer := contract.Call(registryContract, "manufacturerOf", contract.ReadOnly, id).(interop.Hash160)
	if !runtime.CheckWitness(owner) && !runtime.CheckWitness(manufacturer) {
		panic(cst.SealAccessError)
	}

	seal := SealRecord{Root: finalRoot, SealedAt: runtime.GetTime()}
	common.SetSerialized(ctx, sealKey(id8), seal)

	runtime.Notify("Sealed", id, finalRoot, seal.SealedAt)
}

// WindowRoot method returns the digest committed for the given window of the
// item timeline or null if that window has not been committed yet. Unset
// windows of a registered item are an absence, not an error.
//
// If the item is not registered, it panics with registryconst.NotFoundError.
func WindowRoot(id int, windowIdx int) interop.Hash256 {
	ctx := storage.GetReadOnlyContext()
	requireItem(ctx, id)

	data := storage.Get(ctx, windowKey(common.FixedWidth8(id), windowIdx))
	if data == nil {
		return nil
	}
	return data.(interop.Hash256)
}

// LastWindow method returns the index of the last committed window of the
// item timeline, 0 if nothing has been committed yet.
//
// If the item is not registered, it panics with registryconst.NotFoundError.
func LastWindow(id int) int {
	ctx := storage.GetReadOnlyContext()
	requireItem(ctx, id)

	return lastWindow(ctx, common.FixedWidth8(id))
}

// IterateWindows iterates over all committed windows of the item timeline in
// window order. Keys are 8-byte BE window indices, values are the committed
// digests.
//
// If the item is not registered, it panics with registryconst.NotFoundError.
func IterateWindows(id int) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	requireItem(ctx, id)

	prefix := append([]byte{windowKeyPrefix}, common.FixedWidth8(id)...)
	return storage.Find(ctx, prefix, storage.RemovePrefix)
}

// IsSealed method returns true if the item timeline has been sealed. Unlike
// the detail reads it never panics: this and the root reads below are the
// verifier-facing surface, an unknown item simply has no seal.
func IsSealed(id int) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, sealKey(common.FixedWidth8(id))) != nil
}

// SealedRoot method returns the root digest recorded at sealing or null if
// the timeline is not sealed or the item is unknown. No failure for unknown
// items.
func SealedRoot(id int) interop.Hash256 {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, sealKey(common.FixedWidth8(id)))
	if data == nil {
		return nil
	}

	seal := std.Deserialize(data.([]byte)).(SealRecord)
	return seal.Root
}

// SealedAt method returns the block timestamp at which the timeline was
// sealed, 0 if the timeline is not sealed or the item is unknown. No failure
// for unknown items.
func SealedAt(id int) int {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, sealKey(common.FixedWidth8(id)))
	if data == nil {
		return 0
	}

	seal := std.Deserialize(data.([]byte)).(SealRecord)
	return seal.SealedAt
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func requireItem(ctx storage.Context, id int) {
	registryContract := storage.Get(ctx, registryContractKey).(interop.Hash160)
	if !contract.Call(registryContract, "exists", contract.ReadOnly, id).(bool) {
		panic(rcst.NotFoundError)
	}
}

func windowKey(id8 []byte, windowIdx int) []byte {
	key := append([]byte{windowKeyPrefix}, id8...)
	return append(key, common.FixedWidth8(windowIdx)...)
}

func lastKey(id8 []byte) []byte {
	return append([]byte{lastKeyPrefix}, id8...)
}

func sealKey(id8 []byte) []byte {
	return append([]byte{sealKeyPrefix}, id8...)
}

func lastWindow(ctx storage.Context, id8 []byte) int {
	data := storage.Get(ctx, lastKey(id8))
	if data == nil {
		return 0
	}
	return data.(int)
}
