package etherscan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
	"github.com/goodnatureofminers/blockinsight7000-footprint/pkg/safe"
)

var errMissing = errors.New("missing value")

func malformed(hash, field string, err error) error {
	return &model.MalformedRecordError{Hash: hash, Field: field, Err: err}
}

// toTransaction strictly converts a wire entry. Any absent or non-numeric required field
// rejects the whole entry.
func toTransaction(address string, e txEntry) (model.Transaction, error) {
	hash := strings.ToLower(strings.TrimSpace(e.Hash))
	if hash == "" {
		return model.Transaction{}, malformed("", "hash", errMissing)
	}
	raw, err := hexutil.Decode(hash)
	if err != nil {
		return model.Transaction{}, malformed(hash, "hash", err)
	}
	if len(raw) != common.HashLength {
		return model.Transaction{}, malformed(hash, "hash", fmt.Errorf("want %d bytes, got %d", common.HashLength, len(raw)))
	}

	block, err := parseUint(e.BlockNumber)
	if err != nil {
		return model.Transaction{}, malformed(hash, "blockNumber", err)
	}
	unix, err := parseUint(e.TimeStamp)
	if err != nil {
		return model.Transaction{}, malformed(hash, "timeStamp", err)
	}
	sec, err := safe.Int64(unix)
	if err != nil {
		return model.Transaction{}, malformed(hash, "timeStamp", err)
	}
	gasUsed, err := parseUint(e.GasUsed)
	if err != nil {
		return model.Transaction{}, malformed(hash, "gasUsed", err)
	}
	price, err := digits(e.GasPrice)
	if err != nil {
		return model.Transaction{}, malformed(hash, "gasPrice", err)
	}
	var gasPrice uint256.Int
	if err := gasPrice.SetFromDecimal(price); err != nil {
		return model.Transaction{}, malformed(hash, "gasPrice", err)
	}

	var isError bool
	switch strings.TrimSpace(e.IsError) {
	case "", "0":
	case "1":
		isError = true
	default:
		return model.Transaction{}, malformed(hash, "isError", fmt.Errorf("unexpected value %q", e.IsError))
	}

	to := e.To
	if to == "" {
		to = e.ContractAddress
	}

	return model.Transaction{
		Address:     address,
		Hash:        hash,
		BlockNumber: block,
		Timestamp:   time.Unix(sec, 0).UTC(),
		From:        strings.ToLower(e.From),
		To:          strings.ToLower(to),
		GasUsed:     gasUsed,
		GasPrice:    gasPrice,
		IsError:     isError,
	}, nil
}

var errNotDigits = errors.New("not an unsigned decimal")

// digits trims s and accepts only ASCII decimal digits, so every numeric field follows one
// rule: no sign, no fraction, leading zeros allowed.
func digits(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errMissing
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", fmt.Errorf("%w: %q", errNotDigits, s)
		}
	}
	return s, nil
}

func parseUint(s string) (uint64, error) {
	s, err := digits(s)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(s, 10, 64)
}
