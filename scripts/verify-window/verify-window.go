package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Recomputes the digest of a locally stored telemetry window and compares it
// with the one anchored on the chain. Exits non-zero on mismatch, so the
// script can gate automated audit pipelines.

func cliMain() error {
	flag.Parse()

	args := flag.Args()
	if len(args) < 5 {
		return errors.New("usage: program <RPC> <ANCHOR_CONTRACT> <ITEM_ID> <WINDOW_IDX> <WINDOW_FILE>")
	}

	rpcEndpoint := args[0]
	anchorContractAddress := args[1]

	anchorCont, err := address.StringToUint160(anchorContractAddress)
	if err != nil {
		return fmt.Errorf("bad contract address: %w", err)
	}

	itemID, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("bad item id: %w", err)
	}

	windowIdx, err := strconv.ParseInt(args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("bad window index: %w", err)
	}

	data, err := os.ReadFile(args[4])
	if err != nil {
		return fmt.Errorf("read window file: %w", err)
	}

	local := util.Uint256(sha256.Sum256(data))

	c, err := rpcclient.New(context.Background(), rpcEndpoint, rpcclient.Options{})
	if err != nil {
		return fmt.Errorf("RPC client dial: %w", err)
	}
	err = c.Init()
	if err != nil {
		return fmt.Errorf("RPC client init: %w", err)
	}

	anchored, err := unwrap.Uint256(invoker.New(c, nil).Call(anchorCont, "windowRoot", itemID, windowIdx))
	if err != nil {
		return fmt.Errorf("get anchored root of window #%d of item #%d: %w", windowIdx, itemID, err)
	}

	fmt.Println("local:   ", base58.Encode(local[:]))
	fmt.Println("anchored:", base58.Encode(anchored[:]))

	if !anchored.Equals(local) {
		return errors.New("MISMATCH: the local window does not correspond to the anchored digest")
	}

	fmt.Println("OK")

	return nil
}

func main() {
	if err := cliMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
