package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/coldchain-contract/common"
	"github.com/stretchr/testify/require"
)

const accessPath = "../contracts/access"

func deployAccessContract(t *testing.T, e *neotest.Executor, admin util.Uint160) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, accessPath, path.Join(accessPath, "config.yml"))

	args := make([]interface{}, 1)
	args[0] = admin

	e.DeployContract(t, c, args)
	return c.Hash
}

func newAccessInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	h := deployAccessContract(t, e, e.CommitteeHash)
	return e.CommitteeInvoker(h)
}

func TestAccessDeploy(t *testing.T) {
	e := newExecutor(t)

	c := neotest.CompileFile(t, e.CommitteeHash, accessPath, path.Join(accessPath, "config.yml"))
	e.DeployContractCheckFAULT(t, c, []interface{}{[]byte{1, 2, 3}},
		"incorrect length of admin script hash")

	e.DeployContract(t, c, []interface{}{e.CommitteeHash})
	inv := e.CommitteeInvoker(c.Hash)

	inv.Invoke(t, stackitem.NewByteArray(e.CommitteeHash.BytesBE()), "admin")
	inv.Invoke(t, stackitem.Make(common.Version), "version")
}

func TestSetIngestionAgent(t *testing.T) {
	c := newAccessInvoker(t)

	const method = "setIngestionAgent"

	agent := c.NewAccount(t)
	agentHash := agent.ScriptHash()

	c.Invoke(t, stackitem.NewBool(false), "isIngestionAgent", agentHash)

	cAgent := c.WithSigners(agent)
	cAgent.InvokeFail(t, common.ErrAdminWitnessFailed, method, agentHash, true)
	c.Invoke(t, stackitem.NewBool(false), "isIngestionAgent", agentHash)

	c.InvokeFail(t, "incorrect length of identity script hash", method, []byte{1, 2, 3}, true)

	h := c.Invoke(t, stackitem.Null{}, method, agentHash, true)
	aer := c.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "IngestionAgentSet", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(agentHash.BytesBE()),
		stackitem.NewBool(true),
	}), aer.Events[0].Item)

	c.Invoke(t, stackitem.NewBool(true), "isIngestionAgent", agentHash)

	// enrolling an agent twice is a no-op
	c.Invoke(t, stackitem.Null{}, method, agentHash, true)
	c.Invoke(t, stackitem.NewBool(true), "isIngestionAgent", agentHash)

	h = c.Invoke(t, stackitem.Null{}, method, agentHash, false)
	aer = c.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "IngestionAgentSet", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(agentHash.BytesBE()),
		stackitem.NewBool(false),
	}), aer.Events[0].Item)

	c.Invoke(t, stackitem.NewBool(false), "isIngestionAgent", agentHash)
}

func TestSetRegulator(t *testing.T) {
	c := newAccessInvoker(t)

	const method = "setRegulator"

	reg := c.NewAccount(t)
	regHash := reg.ScriptHash()

	c.Invoke(t, stackitem.NewBool(false), "isRegulator", regHash)

	cReg := c.WithSigners(reg)
	cReg.InvokeFail(t, common.ErrAdminWitnessFailed, method, regHash, true)

	h := c.Invoke(t, stackitem.Null{}, method, regHash, true)
	aer := c.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "RegulatorSet", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(regHash.BytesBE()),
		stackitem.NewBool(true),
	}), aer.Events[0].Item)

	c.Invoke(t, stackitem.NewBool(true), "isRegulator", regHash)

	// the two role sets are independent
	c.Invoke(t, stackitem.NewBool(false), "isIngestionAgent", regHash)

	c.Invoke(t, stackitem.Null{}, method, regHash, false)
	c.Invoke(t, stackitem.NewBool(false), "isRegulator", regHash)
}

func TestAccessUpdate(t *testing.T) {
	c := newAccessInvoker(t)

	notAdmin := c.NewAccount(t)
	cNotAdmin := c.WithSigners(notAdmin)

	cNotAdmin.InvokeFail(t, "only committee can update contract", "update",
		[]byte{}, []byte{}, nil)
}
