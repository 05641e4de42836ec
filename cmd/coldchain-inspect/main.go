package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/coldchain-contract/rpc/anchor"
	"github.com/nspcc-dev/coldchain-contract/rpc/registry"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	registryAddress := flag.String("registry", "", "Address of the ColdChain Registry contract")
	anchorAddress := flag.String("anchor", "", "Address of the ColdChain Anchor contract")
	itemID := flag.Int64("item", 0, "ID of the item to inspect (all items are listed if unset)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *registryAddress == "":
		log.Fatal("missing Registry contract address")
	case *anchorAddress == "":
		log.Fatal("missing Anchor contract address")
	}

	registryHash, err := parseContractAddress(*registryAddress)
	if err != nil {
		log.Fatal(fmt.Errorf("invalid Registry contract address: %w", err))
	}

	anchorHash, err := parseContractAddress(*anchorAddress)
	if err != nil {
		log.Fatal(fmt.Errorf("invalid Anchor contract address: %w", err))
	}

	err = inspect(*neoRPCEndpoint, registryHash, anchorHash, *itemID)
	if err != nil {
		log.Fatal(err)
	}
}

// parseContractAddress accepts both Neo address and hex (LE) forms of the
// contract account.
func parseContractAddress(s string) (util.Uint160, error) {
	res, err := address.StringToUint160(s)
	if err == nil {
		return res, nil
	}

	return util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
}

func inspect(neoBlockchainRPCEndpoint string, registryHash, anchorHash util.Uint160, itemID int64) error {
	b, err := newRemoteBlockchain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	fmt.Printf("chain height: %d\n", b.currentBlock)

	registryReader := registry.NewReader(b.inv, registryHash)
	anchorReader := anchor.NewReader(b.inv, anchorHash)

	if itemID > 0 {
		return inspectItem(registryReader, anchorReader, big.NewInt(itemID))
	}

	return listItems(registryReader, anchorReader)
}

// listItems prints one summary line per registered item.
func listItems(registryReader *registry.ContractReader, anchorReader *anchor.ContractReader) error {
	ids, err := registryReader.List()
	if err != nil {
		return fmt.Errorf("list registered items: %w", err)
	}

	fmt.Printf("items total: %d\n", len(ids))

	for _, id := range ids {
		item, err := registryReader.Get(id)
		if err != nil {
			return fmt.Errorf("get item #%s: %w", id, err)
		}

		sealed, err := anchorReader.IsSealed(id)
		if err != nil {
			return fmt.Errorf("get seal state of item #%s: %w", id, err)
		}

		fmt.Printf("#%s\t%s\t%s\tcertified=%t\tsealed=%t\n",
			id, item.SKU, statusName(item.Status), item.Certified, sealed)
	}

	return nil
}

// inspectItem prints the registry record of the item followed by its full
// anchored timeline and the seal, if any. Digests are base58-encoded.
func inspectItem(registryReader *registry.ContractReader, anchorReader *anchor.ContractReader, id *big.Int) error {
	item, err := registryReader.Get(id)
	if err != nil {
		return fmt.Errorf("get item #%s: %w", id, err)
	}

	fmt.Printf("item #%s\n", id)
	fmt.Printf("  SKU:          %s\n", item.SKU)
	fmt.Printf("  metadata URI: %s\n", item.MetadataURI)
	fmt.Printf("  manufacturer: %s\n", address.Uint160ToString(item.Manufacturer))
	fmt.Printf("  owner:        %s\n", address.Uint160ToString(item.Owner))
	fmt.Printf("  status:       %s\n", statusName(item.Status))
	fmt.Printf("  certified:    %t\n", item.Certified)
	fmt.Printf("  registered:   %s\n", formatTimestamp(item.CreatedAt))

	lastWindow, err := anchorReader.LastWindow(id)
	if err != nil {
		return fmt.Errorf("get last committed window of item #%s: %w", id, err)
	}

	fmt.Printf("timeline (%s windows):\n", lastWindow)

	for i := int64(1); i <= lastWindow.Int64(); i++ {
		root, err := anchorReader.WindowRoot(id, big.NewInt(i))
		if err != nil {
			return fmt.Errorf("get root of window #%d of item #%s: %w", i, id, err)
		}

		fmt.Printf("  window #%d: %s\n", i, base58.Encode(root[:]))
	}

	sealed, err := anchorReader.IsSealed(id)
	if err != nil {
		return fmt.Errorf("get seal state of item #%s: %w", id, err)
	}

	if !sealed {
		fmt.Println("seal: none, timeline is still open")
		return nil
	}

	root, err := anchorReader.SealedRoot(id)
	if err != nil {
		return fmt.Errorf("get sealed root of item #%s: %w", id, err)
	}

	sealedAt, err := anchorReader.SealedAt(id)
	if err != nil {
		return fmt.Errorf("get seal time of item #%s: %w", id, err)
	}

	fmt.Printf("seal:\n  root:      %s\n  sealed at: %s\n", base58.Encode(root[:]), formatTimestamp(sealedAt))

	return nil
}

func statusName(status *big.Int) string {
	switch {
	case status.Cmp(registry.StatusCreated) == 0:
		return "Created"
	case status.Cmp(registry.StatusShipped) == 0:
		return "Shipped"
	case status.Cmp(registry.StatusReceived) == 0:
		return "Received"
	case status.Cmp(registry.StatusDelivered) == 0:
		return "Delivered"
	default:
		return fmt.Sprintf("unknown (%s)", status)
	}
}

// formatTimestamp renders millisecond block timestamp from the contract
// storage as RFC 3339 time.
func formatTimestamp(ms *big.Int) string {
	return time.UnixMilli(ms.Int64()).UTC().Format(time.RFC3339)
}
