// Package deploy provides Neo blockchain deployment of the cold chain
// contract suite.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for deployment of the cold chain contract suite.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown
	// contract' substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

func (x CommonDeployPrm) validate() error {
	if x.NEF.Magic != nef.Magic {
		return errors.New("invalid NEF magic")
	}
	if len(x.NEF.Script) == 0 {
		return errors.New("empty NEF script")
	}
	if x.Manifest.Name == "" {
		return errors.New("empty manifest name")
	}
	return nil
}

// AccessContractPrm groups deployment parameters of the ColdChain Access
// contract.
type AccessContractPrm struct {
	Common CommonDeployPrm

	// Administrator of the role sets. Defaults to the deployer account.
	Admin util.Uint160
}

// RegistryContractPrm groups deployment parameters of the ColdChain Registry
// contract.
type RegistryContractPrm struct {
	Common CommonDeployPrm
}

// AnchorContractPrm groups deployment parameters of the ColdChain Anchor
// contract.
type AnchorContractPrm struct {
	Common CommonDeployPrm
}

// Prm groups all parameters of the cold chain suite deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to be used.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	LocalAccount *wallet.Account

	AccessContract   AccessContractPrm
	RegistryContract RegistryContractPrm
	AnchorContract   AnchorContractPrm
}

// Addresses groups on-chain addresses of the deployed cold chain contracts.
type Addresses struct {
	Access   util.Uint160
	Registry util.Uint160
	Anchor   util.Uint160
}

// Deploy initializes the cold chain contract suite on the Neo network
// represented by given Prm.Blockchain and returns addresses of the on-chain
// contracts.
//
// Deploy is idempotent: a contract already present on the chain is reused as
// is. Expected contract addresses are pre-calculated from the deployer
// account and the contract NEFs, so repeated runs converge to one suite.
// Deployment progress is logged in detail.
//
// Summary of stages:
//  1. Access contract deployment
//  2. Registry contract deployment (bound to Access)
//  3. Anchor contract deployment (bound to Registry and Access)
func Deploy(ctx context.Context, prm Prm) (Addresses, error) {
	var res Addresses

	for name, common := range map[string]CommonDeployPrm{
		"Access":   prm.AccessContract.Common,
		"Registry": prm.RegistryContract.Common,
		"Anchor":   prm.AnchorContract.Common,
	} {
		if err := common.validate(); err != nil {
			return res, fmt.Errorf("invalid %s contract deployment parameters: %w", name, err)
		}
	}

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from the local account: %w", err)
	}

	deployer := prm.LocalAccount.ScriptHash()

	admin := prm.AccessContract.Admin
	if admin.Equals(util.Uint160{}) {
		admin = deployer
	}

	prm.Logger.Info("synchronizing Access contract with the chain...", zap.Stringer("admin", admin))

	res.Access, err = syncContract(ctx, syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		localActor: localActor,
		deployer:   deployer,
		common:     prm.AccessContract.Common,
		deployArgs: []any{admin},
	})
	if err != nil {
		return res, fmt.Errorf("sync Access contract with the chain: %w", err)
	}

	prm.Logger.Info("Access contract successfully synchronized", zap.Stringer("address", res.Access))

	prm.Logger.Info("synchronizing Registry contract with the chain...")

	res.Registry, err = syncContract(ctx, syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		localActor: localActor,
		deployer:   deployer,
		common:     prm.RegistryContract.Common,
		deployArgs: []any{res.Access},
	})
	if err != nil {
		return res, fmt.Errorf("sync Registry contract with the chain: %w", err)
	}

	prm.Logger.Info("Registry contract successfully synchronized", zap.Stringer("address", res.Registry))

	prm.Logger.Info("synchronizing Anchor contract with the chain...")

	res.Anchor, err = syncContract(ctx, syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		localActor: localActor,
		deployer:   deployer,
		common:     prm.AnchorContract.Common,
		deployArgs: []any{res.Registry, res.Access},
	})
	if err != nil {
		return res, fmt.Errorf("sync Anchor contract with the chain: %w", err)
	}

	prm.Logger.Info("Anchor contract successfully synchronized", zap.Stringer("address", res.Anchor))

	return res, nil
}

// syncContractPrm groups parameters of syncContract.
type syncContractPrm struct {
	logger *zap.Logger

	blockchain Blockchain

	localActor *actor.Actor

	deployer util.Uint160

	common CommonDeployPrm

	// _deploy arguments of the contract.
	deployArgs []any
}

// syncContract deploys the contract unless it is already on the chain and
// returns its address. The address is fully determined by the deployer
// account, the NEF checksum and the manifest name, so presence is checked
// against the pre-calculated one.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	if err := ctx.Err(); err != nil {
		return util.Uint160{}, fmt.Errorf("wait for sync of contract '%s': %w", prm.common.Manifest.Name, err)
	}

	expected := state.CreateContractHash(prm.deployer, prm.common.NEF.Checksum, prm.common.Manifest.Name)

	onChainState, err := prm.blockchain.GetContractStateByHash(expected)
	if err == nil {
		prm.logger.Info("contract is already on the chain",
			zap.String("name", prm.common.Manifest.Name), zap.Stringer("address", expected))
		return onChainState.Hash, nil
	} else if !isErrContractNotFound(err) {
		return util.Uint160{}, fmt.Errorf("read on-chain state of the contract by address %s: %w", expected, err)
	}

	prm.logger.Info("contract is missing on the chain, deploying...",
		zap.String("name", prm.common.Manifest.Name), zap.Stringer("address", expected))

	txHash, vub, err := management.New(prm.localActor).Deploy(&prm.common.NEF, &prm.common.Manifest, prm.deployArgs)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send transaction deploying the contract: %w", err)
	}

	prm.logger.Info("transaction deploying the contract has been successfully sent, waiting for the result...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	aer, err := prm.localActor.Wait(txHash, vub, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deploy transaction %s: %w", txHash, err)
	} else if aer.VMState != vmstate.Halt {
		return util.Uint160{}, fmt.Errorf("deploy transaction %s failed with state %s: %s",
			txHash, aer.VMState, aer.FaultException)
	}

	prm.logger.Info("contract successfully deployed", zap.String("name", prm.common.Manifest.Name))

	return expected, nil
}

// isErrContractNotFound checks if the error returned by
// Blockchain.GetContractStateByHash means that the contract is missing on
// the chain.
func isErrContractNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unknown contract")
}
