// Package contracts holds the contract interfaces this repo talks to and
// typed call descriptors built from them.
package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	PreminterABIName       = "ZoraCreator1155Preminter"
	Creator1155ABIName     = "ZoraCreator1155Impl"
	WowFactoryABIName      = "ERC20Factory"
	ProtocolRewardsABIName = "ProtocolRewards"
)

//go:embed abis/*.json
var abiFS embed.FS

var (
	rawABIs = map[string][]byte{}
	parsed  = map[string]abi.ABI{}

	PreminterABI       abi.ABI
	Creator1155ABI     abi.ABI
	WowFactoryABI      abi.ABI
	ProtocolRewardsABI abi.ABI
)

func init() {
	entries, err := abiFS.ReadDir("abis")
	if err != nil {
		panic(err)
	}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")
		data, err := abiFS.ReadFile(path.Join("abis", entry.Name()))
		if err != nil {
			panic(err)
		}
		contractABI, err := abi.JSON(bytes.NewReader(data))
		if err != nil {
			panic(fmt.Sprintf("abi %s: %s", name, err))
		}
		rawABIs[name] = data
		parsed[name] = contractABI
	}

	PreminterABI = parsed[PreminterABIName]
	Creator1155ABI = parsed[Creator1155ABIName]
	WowFactoryABI = parsed[WowFactoryABIName]
	ProtocolRewardsABI = parsed[ProtocolRewardsABIName]
}

// Names lists the embedded ABIs in lexical order.
func Names() []string {
	names := make([]string, 0, len(rawABIs))
	for name := range rawABIs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ABI returns a parsed embedded ABI by contract name.
func ABI(name string) (abi.ABI, bool) {
	contractABI, ok := parsed[name]
	return contractABI, ok
}

// ExtractABIs writes every embedded ABI to dir/<Name>.json, indented by two
// spaces. dir is created when missing. It returns the written paths.
func ExtractABIs(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var written []string
	for _, name := range Names() {
		var out bytes.Buffer
		if err := json.Indent(&out, bytes.TrimSpace(rawABIs[name]), "", "  "); err != nil {
			return written, fmt.Errorf("indent %s: %w", name, err)
		}
		file := filepath.Join(dir, name+".json")
		if err := os.WriteFile(file, out.Bytes(), 0644); err != nil {
			return written, err
		}
		written = append(written, file)
	}
	return written, nil
}
