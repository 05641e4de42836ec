package tests

import (
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/coldchain-contract/common"
	cst "github.com/nspcc-dev/coldchain-contract/contracts/anchor/anchorconst"
	"github.com/nspcc-dev/coldchain-contract/contracts/registry/itemstatus"
	rcst "github.com/nspcc-dev/coldchain-contract/contracts/registry/registryconst"
	"github.com/stretchr/testify/require"
)

const anchorPath = "../contracts/anchor"

func deployAnchorContract(t *testing.T, e *neotest.Executor, addrRegistry, addrAccess util.Uint160) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, anchorPath, path.Join(anchorPath, "config.yml"))

	args := make([]interface{}, 2)
	args[0] = addrRegistry
	args[1] = addrAccess

	e.DeployContract(t, c, args)
	return c.Hash
}

// newAnchorInvoker deploys the whole contract suite and returns committee
// invokers for the Anchor, Registry and Access contracts.
func newAnchorInvoker(t *testing.T) (*neotest.ContractInvoker, *neotest.ContractInvoker, *neotest.ContractInvoker) {
	e := newExecutor(t)

	addrAccess := deployAccessContract(t, e, e.CommitteeHash)
	addrRegistry := deployRegistryContract(t, e, addrAccess)
	addrAnchor := deployAnchorContract(t, e, addrRegistry, addrAccess)

	return e.CommitteeInvoker(addrAnchor), e.CommitteeInvoker(addrRegistry), e.CommitteeInvoker(addrAccess)
}

// registerTestItem registers an item with a fresh custodian account and
// returns the account. Identifiers are dense, so the first item registered
// on a fresh chain always gets id 1.
func registerTestItem(t *testing.T, cRegistry *neotest.ContractInvoker) neotest.Signer {
	owner := cRegistry.NewAccount(t)
	cRegistry.WithSigners(owner).Invoke(t, stackitem.Make(1), "register", owner.ScriptHash(), "SKU-1", "")
	return owner
}

// enrollAgent enrolls a fresh account into the ingestion agent set and
// returns the account.
func enrollAgent(t *testing.T, cAccess *neotest.ContractInvoker) neotest.Signer {
	agent := cAccess.NewAccount(t)
	cAccess.Invoke(t, stackitem.Null{}, "setIngestionAgent", agent.ScriptHash(), true)
	return agent
}

func TestAnchorDeploy(t *testing.T) {
	e := newExecutor(t)

	addrAccess := deployAccessContract(t, e, e.CommitteeHash)
	addrRegistry := deployRegistryContract(t, e, addrAccess)

	c := neotest.CompileFile(t, e.CommitteeHash, anchorPath, path.Join(anchorPath, "config.yml"))
	e.DeployContractCheckFAULT(t, c, []interface{}{[]byte{1, 2, 3}, addrAccess},
		"incorrect length of registry contract script hash")
	e.DeployContractCheckFAULT(t, c, []interface{}{addrRegistry, []byte{1, 2, 3}},
		"incorrect length of access contract script hash")

	e.DeployContract(t, c, []interface{}{addrRegistry, addrAccess})
	inv := e.CommitteeInvoker(c.Hash)

	inv.Invoke(t, stackitem.Make(common.Version), "version")
}

func TestCommitWindow(t *testing.T) {
	c, cRegistry, cAccess := newAnchorInvoker(t)

	const method = "commitWindow"

	owner := registerTestItem(t, cRegistry)
	agent := enrollAgent(t, cAccess)
	agentHash := agent.ScriptHash()
	cAgent := c.WithSigners(agent)

	stranger := c.NewAccount(t)
	cStranger := c.WithSigners(stranger)

	root1 := randomBytes(32)

	// an unknown item wins over every other complaint
	cStranger.InvokeFail(t, rcst.NotFoundError, method, int64(9), int64(5), root1, stranger.ScriptHash())

	// witness alone is not enough without enrollment...
	cStranger.InvokeFail(t, cst.CommitAccessError, method, int64(1), int64(1), root1, stranger.ScriptHash())

	// ...and enrollment is not enough without the witness
	cStranger.InvokeFail(t, cst.CommitAccessError, method, int64(1), int64(1), root1, agentHash)

	// the timeline starts at window 1 and skips nothing
	cAgent.InvokeFail(t, cst.OutOfOrderError, method, int64(1), int64(0), root1, agentHash)
	cAgent.InvokeFail(t, cst.OutOfOrderError, method, int64(1), int64(2), root1, agentHash)
	c.Invoke(t, stackitem.Make(0), "lastWindow", int64(1))

	h := cAgent.Invoke(t, stackitem.Null{}, method, int64(1), int64(1), root1, agentHash)
	items := singleEvent(t, cAgent.CheckHalt(t, h), "WindowCommitted")
	require.Len(t, items, 4)
	require.Equal(t, big.NewInt(1), items[0].Value())
	require.Equal(t, big.NewInt(1), items[1].Value())
	require.Equal(t, root1, items[2].Value().([]byte))
	require.True(t, items[3].Value().(*big.Int).Sign() > 0)

	c.Invoke(t, stackitem.Make(1), "lastWindow", int64(1))
	c.Invoke(t, stackitem.NewByteArray(root1), "windowRoot", int64(1), int64(1))

	// a rejected skip leaves no trace
	root3 := randomBytes(32)
	cAgent.InvokeFail(t, cst.OutOfOrderError, method, int64(1), int64(3), root3, agentHash)
	c.Invoke(t, stackitem.Make(1), "lastWindow", int64(1))
	c.Invoke(t, stackitem.Null{}, "windowRoot", int64(1), int64(3))

	// a replay cannot overwrite the committed digest
	cAgent.InvokeFail(t, cst.OutOfOrderError, method, int64(1), int64(1), randomBytes(32), agentHash)
	c.Invoke(t, stackitem.NewByteArray(root1), "windowRoot", int64(1), int64(1))

	// the successor is still welcome after any number of failures
	root2 := randomBytes(32)
	cAgent.Invoke(t, stackitem.Null{}, method, int64(1), int64(2), root2, agentHash)
	c.Invoke(t, stackitem.Make(2), "lastWindow", int64(1))
	c.Invoke(t, stackitem.NewByteArray(root2), "windowRoot", int64(1), int64(2))

	// timelines of different items do not interfere
	owner2 := cRegistry.NewAccount(t)
	cRegistry.WithSigners(owner2).Invoke(t, stackitem.Make(2), "register", owner2.ScriptHash(), "SKU-2", "")
	cAgent.Invoke(t, stackitem.Null{}, method, int64(2), int64(1), randomBytes(32), agentHash)
	c.Invoke(t, stackitem.Make(2), "lastWindow", int64(1))
	c.Invoke(t, stackitem.Make(1), "lastWindow", int64(2))

	// a dismissed agent cannot extend the timeline any more
	cAccess.Invoke(t, stackitem.Null{}, "setIngestionAgent", agentHash, false)
	cAgent.InvokeFail(t, cst.CommitAccessError, method, int64(1), int64(3), root3, agentHash)
	cAccess.Invoke(t, stackitem.Null{}, "setIngestionAgent", agentHash, true)

	// the seal closes the timeline for commits, valid or not
	c.WithSigners(owner).Invoke(t, stackitem.Null{}, "seal", int64(1), randomBytes(32))
	cAgent.InvokeFail(t, cst.AlreadySealedError, method, int64(1), int64(3), root3, agentHash)
	cAgent.InvokeFail(t, cst.AlreadySealedError, method, int64(1), int64(7), root3, agentHash)
	cStranger.InvokeFail(t, cst.AlreadySealedError, method, int64(1), int64(3), root3, stranger.ScriptHash())

	// the sealed timeline still reads back whole
	c.Invoke(t, stackitem.Make(2), "lastWindow", int64(1))
	c.Invoke(t, stackitem.NewByteArray(root1), "windowRoot", int64(1), int64(1))
	c.Invoke(t, stackitem.NewByteArray(root2), "windowRoot", int64(1), int64(2))
}

func TestSeal(t *testing.T) {
	c, cRegistry, cAccess := newAnchorInvoker(t)

	const method = "seal"

	owner := registerTestItem(t, cRegistry)
	ownerHash := owner.ScriptHash()
	cOwner := c.WithSigners(owner)

	agent := enrollAgent(t, cAccess)
	cAgent := c.WithSigners(agent)

	finalRoot := randomBytes(32)

	cOwner.InvokeFail(t, rcst.NotFoundError, method, int64(9), finalRoot)

	// neither an outsider nor the ingestion agent can close the timeline
	stranger := c.NewAccount(t)
	c.WithSigners(stranger).InvokeFail(t, cst.SealAccessError, method, int64(1), finalRoot)
	cAgent.InvokeFail(t, cst.SealAccessError, method, int64(1), finalRoot)
	c.Invoke(t, stackitem.NewBool(false), "isSealed", int64(1))

	cAgent.Invoke(t, stackitem.Null{}, "commitWindow", int64(1), int64(1), randomBytes(32), agent.ScriptHash())

	h := cOwner.Invoke(t, stackitem.Null{}, method, int64(1), finalRoot)
	items := singleEvent(t, cOwner.CheckHalt(t, h), "Sealed")
	require.Len(t, items, 3)
	require.Equal(t, big.NewInt(1), items[0].Value())
	require.Equal(t, finalRoot, items[1].Value().([]byte))
	require.True(t, items[2].Value().(*big.Int).Sign() > 0)

	c.Invoke(t, stackitem.NewBool(true), "isSealed", int64(1))
	c.Invoke(t, stackitem.NewByteArray(finalRoot), "sealedRoot", int64(1))

	res, err := c.TestInvoke(t, "sealedAt", int64(1))
	require.NoError(t, err)
	require.True(t, res.Top().BigInt().Sign() > 0)

	// the seal is final, for the custodian too
	cOwner.InvokeFail(t, cst.AlreadySealedError, method, int64(1), randomBytes(32))
	c.Invoke(t, stackitem.NewByteArray(finalRoot), "sealedRoot", int64(1))

	// the manufacturer can seal after custody moved on, even an empty timeline
	cRegistry.WithSigners(owner).Invoke(t, stackitem.Make(2), "register", ownerHash, "SKU-2", "")
	carrier := c.NewAccount(t)
	cRegistry.WithSigners(owner).Invoke(t, stackitem.Null{}, "transferCustody", int64(2), carrier.ScriptHash(), []byte{})
	cOwner.Invoke(t, stackitem.Null{}, method, int64(2), randomBytes(32))

	// and so can the custodian of the moment
	cRegistry.WithSigners(owner).Invoke(t, stackitem.Make(3), "register", ownerHash, "SKU-3", "")
	cRegistry.WithSigners(owner).Invoke(t, stackitem.Null{}, "transferCustody", int64(3), carrier.ScriptHash(), []byte{})
	c.WithSigners(carrier).Invoke(t, stackitem.Null{}, method, int64(3), randomBytes(32))
}

func TestAnchorReads(t *testing.T) {
	c, cRegistry, cAccess := newAnchorInvoker(t)

	// detail reads reject an unknown item...
	c.InvokeFail(t, rcst.NotFoundError, "windowRoot", int64(1), int64(1))
	c.InvokeFail(t, rcst.NotFoundError, "lastWindow", int64(1))
	c.InvokeFail(t, rcst.NotFoundError, "iterateWindows", int64(1))

	// ...while the verifier-facing seal reads answer with absence
	c.Invoke(t, stackitem.NewBool(false), "isSealed", int64(1))
	c.Invoke(t, stackitem.Null{}, "sealedRoot", int64(1))
	c.Invoke(t, stackitem.Make(0), "sealedAt", int64(1))

	registerTestItem(t, cRegistry)
	agent := enrollAgent(t, cAccess)
	cAgent := c.WithSigners(agent)

	// a fresh timeline is empty, not missing
	c.Invoke(t, stackitem.Make(0), "lastWindow", int64(1))
	c.Invoke(t, stackitem.Null{}, "windowRoot", int64(1), int64(1))
	c.Invoke(t, stackitem.NewBool(false), "isSealed", int64(1))
	c.Invoke(t, stackitem.Null{}, "sealedRoot", int64(1))
	c.Invoke(t, stackitem.Make(0), "sealedAt", int64(1))

	res, err := c.TestInvoke(t, "iterateWindows", int64(1))
	require.NoError(t, err)
	require.Empty(t, iteratorToArray(res.Top().Value().(*storage.Iterator)))

	roots := [][]byte{randomBytes(32), randomBytes(32), randomBytes(32)}
	for i, root := range roots {
		cAgent.Invoke(t, stackitem.Null{}, "commitWindow", int64(1), int64(i+1), root, agent.ScriptHash())
	}

	c.Invoke(t, stackitem.Make(3), "lastWindow", int64(1))

	// iteration comes out in window order with 8-byte BE indices as keys
	res, err = c.TestInvoke(t, "iterateWindows", int64(1))
	require.NoError(t, err)
	windows := iteratorToArray(res.Top().Value().(*storage.Iterator))
	require.Len(t, windows, 3)
	for i, root := range roots {
		kv := windows[i].Value().([]stackitem.Item)
		require.Equal(t, common.FixedWidth8(i+1), kv[0].Value().([]byte))
		require.Equal(t, root, kv[1].Value().([]byte))
	}
}

// TestColdChainFlow walks one item through the whole journey: registration,
// custody handoffs, periodic window commits, delivery, certification and the
// final seal an off-chain verifier would consume.
func TestColdChainFlow(t *testing.T) {
	c, cRegistry, cAccess := newAnchorInvoker(t)

	manufacturer := c.NewAccount(t)
	mHash := manufacturer.ScriptHash()
	cManufacturer := cRegistry.WithSigners(manufacturer)
	cManufacturer.Invoke(t, stackitem.Make(1), "register", mHash, "VAX-2026-001", "ipfs://QmBatchSheet")

	agent := enrollAgent(t, cAccess)
	cAgent := c.WithSigners(agent)

	carrier := c.NewAccount(t)
	cCarrier := cRegistry.WithSigners(carrier)
	cManufacturer.Invoke(t, stackitem.Null{}, "transferCustody", int64(1), carrier.ScriptHash(), []byte("picked up"))
	cCarrier.Invoke(t, stackitem.Null{}, "updateStatus", int64(1), int64(itemstatus.Shipped), []byte{})

	var roots [][]byte
	for i := 1; i <= 5; i++ {
		root := randomBytes(32)
		roots = append(roots, root)
		cAgent.Invoke(t, stackitem.Null{}, "commitWindow", int64(1), int64(i), root, agent.ScriptHash())
	}

	pharmacy := c.NewAccount(t)
	cCarrier.Invoke(t, stackitem.Null{}, "transferCustody", int64(1), pharmacy.ScriptHash(), []byte("delivered"))
	cRegistry.WithSigners(pharmacy).Invoke(t, stackitem.Null{}, "updateStatus", int64(1), int64(itemstatus.Delivered), []byte{})

	reg := c.NewAccount(t)
	cAccess.Invoke(t, stackitem.Null{}, "setRegulator", reg.ScriptHash(), true)
	cRegistry.WithSigners(reg).Invoke(t, stackitem.Null{}, "certify", int64(1), reg.ScriptHash(), []byte("GDP audit passed"))

	finalRoot := randomBytes(32)
	c.WithSigners(pharmacy).Invoke(t, stackitem.Null{}, "seal", int64(1), finalRoot)

	// the picture an auditor gets after the journey
	c.Invoke(t, stackitem.NewBool(true), "isSealed", int64(1))
	c.Invoke(t, stackitem.NewByteArray(finalRoot), "sealedRoot", int64(1))
	c.Invoke(t, stackitem.Make(5), "lastWindow", int64(1))
	for i, root := range roots {
		c.Invoke(t, stackitem.NewByteArray(root), "windowRoot", int64(1), int64(i+1))
	}

	res, err := cRegistry.TestInvoke(t, "get", int64(1))
	require.NoError(t, err)
	fields := res.Top().Array()
	require.Equal(t, mHash.BytesBE(), fields[0].Value().([]byte))
	require.Equal(t, pharmacy.ScriptHash().BytesBE(), fields[1].Value().([]byte))
	require.Equal(t, big.NewInt(int64(itemstatus.Delivered)), fields[5].Value())
	require.Equal(t, true, fields[6].Value())
}

func TestAnchorUpdate(t *testing.T) {
	c, _, _ := newAnchorInvoker(t)

	notCommittee := c.NewAccount(t)
	c.WithSigners(notCommittee).InvokeFail(t, "only committee can update contract", "update",
		[]byte{}, []byte{}, nil)

	c.Invoke(t, stackitem.Make(common.Version), "version")
}
