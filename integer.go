package x690

/*
integer.go implements the ASN.1 INTEGER (tag 2) and ENUMERATED
(tag 10) types, the shared minimal two's-complement content codec,
and the range-checked narrowing onto fixed-width native targets.
*/

import (
	"fmt"
	"math/big"

	"golang.org/x/exp/constraints"
)

/*
Int implements the ASN.1 INTEGER type for the int64 range. Values
outside that range decode into [BigInt] targets instead; an Int
target fails them with an integer-too-large condition.
*/
type Int int64

/*
Tag returns UNIVERSAL 2.
*/
func (r Int) Tag() TagID { return uni(tagInteger) }

func (r Int) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	return appendIntContent(dst, big.NewInt(int64(r))), nil
}

func (r *Int) readContent(content []byte, at int, rule EncodingRule) error {
	v, err := parseIntContent(content, at, rule)
	if err != nil {
		return err
	}
	if !v.IsInt64() {
		return failAt(KindIntegerTooLarge, at,
			fmt.Errorf("INTEGER value %s does not fit int64", v.String()))
	}
	*r = Int(v.Int64())
	return nil
}

/*
Enumerated implements the ASN.1 ENUMERATED type, sharing the INTEGER
content codec under tag 10.
*/
type Enumerated int64

/*
Tag returns UNIVERSAL 10.
*/
func (r Enumerated) Tag() TagID { return uni(tagEnumerated) }

func (r Enumerated) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	return appendIntContent(dst, big.NewInt(int64(r))), nil
}

func (r *Enumerated) readContent(content []byte, at int, rule EncodingRule) error {
	var i Int
	if err := (&i).readContent(content, at, rule); err != nil {
		return err
	}
	*r = Enumerated(i)
	return nil
}

/*
BigInt implements the ASN.1 INTEGER type over the full unbounded
range. The zero BigInt decodes in place; Val is allocated on demand.
*/
type BigInt struct {
	Val *big.Int
}

/*
Tag returns UNIVERSAL 2.
*/
func (r BigInt) Tag() TagID { return uni(tagInteger) }

func (r BigInt) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	v := r.Val
	if v == nil {
		v = big.NewInt(0)
	}
	return appendIntContent(dst, v), nil
}

func (r *BigInt) readContent(content []byte, at int, rule EncodingRule) error {
	v, err := parseIntContent(content, at, rule)
	if err == nil {
		r.Val = v
	}
	return err
}

/*
appendIntContent appends the minimal two's-complement big-endian
rendering of v.
*/
func appendIntContent(dst []byte, v *big.Int) []byte {
	if v.Sign() >= 0 {
		b := v.Bytes()
		if len(b) == 0 {
			return append(dst, 0x00)
		}
		if b[0]&0x80 != 0 {
			dst = append(dst, 0x00)
		}
		return append(dst, b...)
	}

	// Negative: find the fewest octets n with v >= -2^(8n-1), then
	// emit v + 2^(8n).
	n := (v.BitLen() + 7) / 8
	if n == 0 {
		n = 1
	}
	lo := new(big.Int).Lsh(big.NewInt(1), uint(8*n-1))
	lo.Neg(lo)
	if v.Cmp(lo) < 0 {
		n++
	}

	tc := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	tc.Add(tc, v)
	b := tc.Bytes()
	for len(b) < n {
		b = append([]byte{0x00}, b...)
	}
	return append(dst, b...)
}

/*
parseIntContent interprets content as two's-complement big-endian.
Empty content is malformed under either rule; padded content (a
leading 0x00 before a clear high bit, or 0xFF before a set one) is
refused on the DER path only.
*/
func parseIntContent(content []byte, at int, rule EncodingRule) (*big.Int, error) {
	if len(content) == 0 {
		return nil, failAt(KindInvalidEncoding, at,
			fmt.Errorf("INTEGER content is empty"))
	}

	if rule.canonical() && len(content) > 1 {
		if (content[0] == 0x00 && content[1]&0x80 == 0) ||
			(content[0] == 0xff && content[1]&0x80 != 0) {
			return nil, failAt(KindInvalidEncoding, at,
				fmt.Errorf("non-minimal INTEGER content"))
		}
	}

	v := new(big.Int).SetBytes(content)
	if content[0]&0x80 != 0 {
		wrap := new(big.Int).Lsh(big.NewInt(1), uint(8*len(content)))
		v.Sub(v, wrap)
	}
	return v, nil
}

/*
decodeNarrow range-checks a decoded INTEGER against a fixed-width
signed target.
*/
func decodeNarrow[T constraints.Signed](v *big.Int, at int, min, max int64) (T, error) {
	if !v.IsInt64() {
		return 0, narrowFail[T](v, at)
	}
	n := v.Int64()
	if n < min || n > max {
		return 0, narrowFail[T](v, at)
	}
	return T(n), nil
}

/*
decodeNarrowU range-checks a decoded INTEGER against a fixed-width
unsigned target; negative values never fit.
*/
func decodeNarrowU[T constraints.Unsigned](v *big.Int, at int, max uint64) (T, error) {
	if v.Sign() < 0 || !v.IsUint64() || v.Uint64() > max {
		return 0, narrowFail[T](v, at)
	}
	return T(v.Uint64()), nil
}

func narrowFail[T any](v *big.Int, at int) error {
	var zero T
	return failAt(KindIntegerTooLarge, at,
		fmt.Errorf("INTEGER value %s does not fit %T", v.String(), zero))
}
