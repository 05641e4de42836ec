package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/coldchain-contract/contracts"
	"github.com/nspcc-dev/coldchain-contract/deploy"
	"go.uber.org/zap"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	walletPath := flag.String("wallet", "", "Path to the NEP-6 wallet of the deployer")
	walletPassword := flag.String("password", "", "Password of the deployer wallet account")
	artifactsDir := flag.String("artifacts", "contracts", "Directory with compiled contracts ('<name>/contract.nef' layout)")
	adminAddress := flag.String("admin", "", "Neo address of the role set administrator (deployer if unset)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *walletPath == "":
		log.Fatal("missing deployer wallet")
	}

	err := deploySuite(*neoRPCEndpoint, *walletPath, *walletPassword, *artifactsDir, *adminAddress)
	if err != nil {
		log.Fatal(err)
	}
}

func deploySuite(neoRPCEndpoint, walletPath, walletPassword, artifactsDir, adminAddress string) error {
	var admin util.Uint160

	if adminAddress != "" {
		var err error
		admin, err = address.StringToUint160(adminAddress)
		if err != nil {
			return fmt.Errorf("invalid administrator address: %w", err)
		}
	}

	suite, err := contracts.ReadSuite(os.DirFS(artifactsDir))
	if err != nil {
		return fmt.Errorf("read compiled contracts from '%s': %w", artifactsDir, err)
	}

	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return fmt.Errorf("read deployer wallet: %w", err)
	}

	acc := w.Accounts[0]

	err = acc.Decrypt(walletPassword, w.Scrypt)
	if err != nil {
		return fmt.Errorf("decrypt deployer account: %w", err)
	}

	c, err := rpcclient.New(context.Background(), neoRPCEndpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("RPC client dial: %w", err)
	}

	defer c.Close()

	err = c.Init()
	if err != nil {
		return fmt.Errorf("RPC client init: %w", err)
	}

	l, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	addrs, err := deploy.Deploy(context.Background(), deploy.Prm{
		Logger:       l,
		Blockchain:   c,
		LocalAccount: acc,
		AccessContract: deploy.AccessContractPrm{
			Common: deploy.CommonDeployPrm{NEF: suite.Access.NEF, Manifest: suite.Access.Manifest},
			Admin:  admin,
		},
		RegistryContract: deploy.RegistryContractPrm{
			Common: deploy.CommonDeployPrm{NEF: suite.Registry.NEF, Manifest: suite.Registry.Manifest},
		},
		AnchorContract: deploy.AnchorContractPrm{
			Common: deploy.CommonDeployPrm{NEF: suite.Anchor.NEF, Manifest: suite.Anchor.Manifest},
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("access:   %s\n", address.Uint160ToString(addrs.Access))
	fmt.Printf("registry: %s\n", address.Uint160ToString(addrs.Registry))
	fmt.Printf("anchor:   %s\n", address.Uint160ToString(addrs.Anchor))

	return nil
}
