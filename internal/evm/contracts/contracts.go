// Package contracts loads named contract address lists.
package contracts

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

// Contract is one tracked address. Key is the "Name/kind" label it was listed under.
type Contract struct {
	Key     string
	Name    string
	Kind    string
	Address string
}

// SplitNameKind splits a "Name/kind" label at its first slash. A label without a slash has an
// empty kind.
func SplitNameKind(key string) (string, string) {
	name, kind, _ := strings.Cut(key, "/")
	return strings.TrimSpace(name), strings.TrimSpace(kind)
}

// LoadFiles reads JSON objects mapping labels to addresses and returns the union sorted by
// label. The same label may repeat across files only with the same address.
func LoadFiles(paths ...string) ([]Contract, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no contract files given")
	}

	byKey := make(map[string]Contract)
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read contracts %s: %w", path, err)
		}
		entries, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse contracts %s: %w", path, err)
		}
		for _, c := range entries {
			if prev, ok := byKey[c.Key]; ok && prev.Address != c.Address {
				return nil, fmt.Errorf("contract %q maps to both %s and %s", c.Key, prev.Address, c.Address)
			}
			byKey[c.Key] = c
		}
	}

	out := make([]Contract, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Contract) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out, nil
}

// Parse decodes one contracts document.
func Parse(raw []byte) ([]Contract, error) {
	var doc map[string]string
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	out := make([]Contract, 0, len(doc))
	for key, addr := range doc {
		name, kind := SplitNameKind(key)
		if name == "" {
			return nil, fmt.Errorf("contract label %q has no name", key)
		}
		address, err := model.NormalizeAddress(addr)
		if err != nil {
			return nil, fmt.Errorf("contract %q: %w", key, err)
		}
		out = append(out, Contract{Key: key, Name: name, Kind: kind, Address: address})
	}
	return out, nil
}

// Addresses returns the distinct addresses in first-seen order.
func Addresses(list []Contract) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, c := range list {
		if _, ok := seen[c.Address]; ok {
			continue
		}
		seen[c.Address] = struct{}{}
		out = append(out, c.Address)
	}
	return out
}
