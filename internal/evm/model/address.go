package model

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress validates a hex address and returns it in lower case with a 0x prefix.
// Only well-formedness is checked; the EIP-55 checksum is ignored.
func NormalizeAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid address %q", s)
	}
	return strings.ToLower(common.HexToAddress(s).Hex()), nil
}
