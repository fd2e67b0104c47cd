package uintstore

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// ParseValue parses a decimal or 0x-prefixed hexadecimal string into a value
// that fits the contract's uint256 slot.
func ParseValue(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("uintstore: empty value")
	}
	if strings.HasPrefix(s, "-") {
		return nil, ErrNegativeValue
	}

	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" && len(s) > 2 {
			digits = "0"
		}
		v, err = uint256.FromHex("0x" + digits)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		if errors.Is(err, uint256.ErrBig256Range) {
			return nil, ErrValueOverflow
		}
		return nil, fmt.Errorf("uintstore: parse value %q: %w", s, err)
	}
	return v.ToBig(), nil
}

// CheckValue reports whether v can be stored in a uint256 slot.
func CheckValue(v *big.Int) error {
	if v == nil {
		return errors.New("uintstore: nil value")
	}
	if v.Sign() < 0 {
		return ErrNegativeValue
	}
	if _, overflow := uint256.FromBig(v); overflow {
		return ErrValueOverflow
	}
	return nil
}
