/*
Package contracts provides access to compiled cold chain contracts.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	accessDir   = "access"
	registryDir = "registry"
	anchorDir   = "anchor"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about a single compiled Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Suite groups compiled contracts of the cold chain suite in the order they
// are supposed to be deployed starting from Access.
type Suite struct {
	Access   Contract
	Registry Contract
	Anchor   Contract
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	suiteContracts = []string{
		accessDir,
		registryDir,
		anchorDir,
	}
)

// ReadSuite reads the cold chain contract suite from the given file system.
// Each contract lives in its own directory named after the contract and
// carrying 'contract.nef' and 'manifest.json' files produced by the neo-go
// compiler (compile the sources of this package's subdirectories to get
// them).
func ReadSuite(_fs fs.FS) (Suite, error) {
	var res Suite

	c, err := read(_fs, suiteContracts)
	if err != nil {
		return res, err
	}

	res.Access = c[0]
	res.Registry = c[1]
	res.Anchor = c[2]

	return res, nil
}

func read(_fs fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(_fs, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// Embedded and test FS use "/" even on Windows, so filepath.Join() is
	// not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidManifest, err)
	}

	return c, nil
}
