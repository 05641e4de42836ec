package access

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/coldchain-contract/common"
)

const (
	adminKey = "adminScriptHash"

	agentPrefix     = 'a'
	regulatorPrefix = 'r'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]any)

	admin := args[0].(interop.Hash160)
	if len(admin) != interop.Hash160Len {
		panic("incorrect length of admin script hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, adminKey, admin)

	runtime.Log("access contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("access contract updated")
}

// SetIngestionAgent method adds the identity to the ingestion agent set if
// allowed is true and removes it otherwise. It can be invoked only by the
// contract administrator. Repeated invocations with the same arguments are
// no-ops.
func SetIngestionAgent(agent interop.Hash160, allowed bool) {
	setRole(agentPrefix, agent, allowed, "IngestionAgentSet")
}

// SetRegulator method adds the identity to the regulator set if allowed is
// true and removes it otherwise. It can be invoked only by the contract
// administrator. Repeated invocations with the same arguments are no-ops.
func SetRegulator(reg interop.Hash160, allowed bool) {
	setRole(regulatorPrefix, reg, allowed, "RegulatorSet")
}

func setRole(prefix byte, identity interop.Hash160, allowed bool, event string) {
	if len(identity) != interop.Hash160Len {
		panic("incorrect length of identity script hash")
	}

	ctx := storage.GetContext()
	common.CheckAdminWitness(storage.Get(ctx, adminKey).(interop.Hash160))

	key := append([]byte{prefix}, identity...)
	if allowed {
		storage.Put(ctx, key, []byte{1})
	} else {
		storage.Delete(ctx, key)
	}

	runtime.Notify(event, identity, allowed)
}

// IsIngestionAgent method returns true if the identity is currently allowed
// to commit monitoring windows. Unknown identities are simply not agents, no
// failure.
func IsIngestionAgent(identity interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append([]byte{agentPrefix}, identity...)) != nil
}

// IsRegulator method returns true if the identity is currently allowed to
// certify items.
func IsRegulator(identity interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append([]byte{regulatorPrefix}, identity...)) != nil
}

// Admin method returns the script hash of the contract administrator fixed
// at deployment.
func Admin() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, adminKey).(interop.Hash160)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}
