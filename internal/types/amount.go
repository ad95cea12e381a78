package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// ErrOverflow is returned when a result does not fit into 128 bits.
var ErrOverflow = errors.New("arithmetic overflow")

// amountKeyWidth is the number of decimal digits of 2^128-1.
const amountKeyWidth = 39

var u128Max = sdkmath.NewUintFromBigInt(
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)),
)

// Amount is an unsigned 128-bit quantity. Arithmetic is carried out on 256-bit
// intermediates and checked on the way back.
type Amount struct {
	i sdkmath.Uint
}

func ZeroAmount() Amount {
	return Amount{i: sdkmath.ZeroUint()}
}

func NewAmount(v uint64) Amount {
	return Amount{i: sdkmath.NewUint(v)}
}

func MaxAmount() Amount {
	return Amount{i: u128Max}
}

// AmountFromUint narrows a wide value, failing with ErrOverflow above 2^128-1.
func AmountFromUint(u sdkmath.Uint) (Amount, error) {
	if u.GT(u128Max) {
		return Amount{}, ErrOverflow
	}
	return Amount{i: u}, nil
}

// ParseAmount parses a base-10 string.
func ParseAmount(s string) (Amount, error) {
	u, err := sdkmath.ParseUint(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return AmountFromUint(u)
}

// MustParseAmount is ParseAmount for constants and tests.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Uint returns the wide representation.
func (a Amount) Uint() sdkmath.Uint {
	if a.i.IsNil() {
		return sdkmath.ZeroUint()
	}
	return a.i
}

func (a Amount) Add(b Amount) (Amount, error) {
	return AmountFromUint(a.Uint().Add(b.Uint()))
}

// Sub fails with ErrOverflow when b > a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b.Uint().GT(a.Uint()) {
		return Amount{}, ErrOverflow
	}
	return Amount{i: a.Uint().Sub(b.Uint())}, nil
}

func (a Amount) MulUint64(n uint64) (Amount, error) {
	return AmountFromUint(a.Uint().MulUint64(n))
}

func (a Amount) Min(b Amount) Amount {
	if a.Uint().LT(b.Uint()) {
		return a
	}
	return b
}

func (a Amount) IsZero() bool {
	return a.Uint().IsZero()
}

func (a Amount) Equal(b Amount) bool {
	return a.Uint().Equal(b.Uint())
}

func (a Amount) GT(b Amount) bool {
	return a.Uint().GT(b.Uint())
}

func (a Amount) LT(b Amount) bool {
	return a.Uint().LT(b.Uint())
}

func (a Amount) String() string {
	return a.Uint().String()
}

// SortKey renders the amount zero padded to 39 digits so that lexical order
// equals numeric order.
func (a Amount) SortKey() string {
	s := a.String()
	return strings.Repeat("0", amountKeyWidth-len(s)) + s
}

// ParseSortKey is the inverse of SortKey.
func ParseSortKey(key string) (Amount, error) {
	trimmed := strings.TrimLeft(key, "0")
	if trimmed == "" {
		return ZeroAmount(), nil
	}
	return ParseAmount(trimmed)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be a decimal string: %w", err)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText lets viper and mapstructure decode amounts from config.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
