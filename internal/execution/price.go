package execution

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ScaleFactor converts a price into its fixed-point representation
const ScaleFactor = 1_000_000

// Uint128Size is the width of an encoded result
const Uint128Size = 16

// maxLiteralExponent bounds the decimal exponent kept from the wire. Every
// non-zero float32 times ScaleFactor is reachable well inside it.
const maxLiteralExponent = 64

var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Price is a fetched price. Value is the single-precision reading used for
// diagnostics; Literal is the exact decimal that was on the wire.
type Price struct {
	Value   float32
	Literal decimal.Decimal
}

// ParsePrice decodes a payload that must be exactly one JSON number
// (surrounding whitespace allowed) representable as a float32.
//
// Literals that underflow to zero as a float32 parse as exactly zero. A
// literal whose decimal exponent falls outside ±maxLiteralExponent is
// replaced by the float32 reading.
func ParsePrice(body []byte) (Price, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !(trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')) {
		return Price{}, &DecodingError{What: "price payload", Cause: ErrNotANumber}
	}

	var value float32
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return Price{}, &DecodingError{What: "price payload", Cause: err}
	}

	if value == 0 {
		return Price{Value: value, Literal: decimal.Zero}, nil
	}

	literal, err := decimal.NewFromString(string(trimmed))
	if err != nil || literal.Exponent() > maxLiteralExponent || literal.Exponent() < -maxLiteralExponent {
		literal = decimal.NewFromFloat32(value)
	}

	return Price{Value: value, Literal: literal}, nil
}

// Scale multiplies the price by factor and truncates toward zero.
// Negative prices and results wider than 128 bits are rejected.
func (p Price) Scale(factor int64) (*big.Int, error) {
	if p.Literal.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativePrice, p.Literal)
	}

	scaled := p.Literal.Mul(decimal.NewFromInt(factor)).BigInt()
	if scaled.Sign() < 0 || scaled.Cmp(maxUint128) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrPriceOutOfRange, p.Literal)
	}
	return scaled, nil
}

// EncodeUint128LE writes n as 16 little-endian bytes
func EncodeUint128LE(n *big.Int) ([]byte, error) {
	if n.Sign() < 0 || n.BitLen() > 128 {
		return nil, fmt.Errorf("%w: %s", ErrPriceOutOfRange, n)
	}

	// FillBytes is big-endian
	buf := n.FillBytes(make([]byte, Uint128Size))
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf, nil
}

// DecodeUint128LE reads a 16 byte little-endian unsigned integer
func DecodeUint128LE(b []byte) (*big.Int, error) {
	if len(b) != Uint128Size {
		return nil, fmt.Errorf("expected %d bytes, got %d", Uint128Size, len(b))
	}

	be := make([]byte, Uint128Size)
	for i := range b {
		be[Uint128Size-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be), nil
}
