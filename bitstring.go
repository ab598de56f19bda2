package x690

/*
bitstring.go implements the ASN.1 BIT STRING type (tag 3).
*/

import "fmt"

/*
BitString implements the ASN.1 BIT STRING type: an ordered bit
sequence carried MSB-first in Bytes, of which only the first BitLen
bits are significant.
*/
type BitString struct {
	Bytes  []byte
	BitLen int
}

/*
Tag returns UNIVERSAL 3.
*/
func (r BitString) Tag() TagID { return uni(tagBitString) }

// At returns the bit at index i, or zero when out of range.
func (r BitString) At(i int) int {
	if i < 0 || i >= r.BitLen {
		return 0
	}
	if r.Bytes[i/8]&(0x80>>uint(i%8)) != 0 {
		return 1
	}
	return 0
}

// unused returns the pad-bit count of the final octet.
func (r BitString) unused() int {
	if u := len(r.Bytes)*8 - r.BitLen; u > 0 {
		return u
	}
	return 0
}

func (r BitString) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	if r.BitLen < 0 || r.BitLen > len(r.Bytes)*8 || len(r.Bytes)*8-r.BitLen > 7 {
		return dst, failValue(KindInvalidEncoding,
			fmt.Errorf("BIT STRING bit length %d inconsistent with %d payload octet(s)",
				r.BitLen, len(r.Bytes)))
	}

	u := r.unused()
	dst = append(dst, byte(u))
	if len(r.Bytes) == 0 {
		return dst, nil
	}

	dst = append(dst, r.Bytes...)
	// Canonical emission zeroes the pad bits.
	if u > 0 {
		dst[len(dst)-1] &^= byte(1<<uint(u)) - 1
	}
	return dst, nil
}

func (r *BitString) readContent(content []byte, at int, rule EncodingRule) error {
	bs, err := parseBitSegment(content, at, rule, true)
	if err == nil {
		*r = bs
	}
	return err
}

/*
readSegments joins a BER segmented encoding: every segment but the
last carries complete octets (zero unused bits).
*/
func (r *BitString) readSegments(segs [][]byte, at int, rule EncodingRule) error {
	out := BitString{}
	for i, s := range segs {
		last := i == len(segs)-1
		part, err := parseBitSegment(s, at, rule, last)
		if err != nil {
			return err
		}
		if !last && part.unused() != 0 {
			return failAt(KindInvalidEncoding, at,
				fmt.Errorf("non-final BIT STRING segment with unused bits"))
		}
		out.Bytes = append(out.Bytes, part.Bytes...)
		out.BitLen += part.BitLen
	}
	*r = out
	return nil
}

func parseBitSegment(content []byte, at int, rule EncodingRule, final bool) (BitString, error) {
	if len(content) == 0 {
		return BitString{}, failAt(KindInvalidLength, at,
			fmt.Errorf("BIT STRING content is missing the unused-bits octet"))
	}

	u := int(content[0])
	payload := content[1:]
	switch {
	case u > 7:
		return BitString{}, failAt(KindInvalidEncoding, at,
			fmt.Errorf("BIT STRING unused-bits count %d out of range", u))
	case u > 0 && len(payload) == 0:
		return BitString{}, failAt(KindInvalidEncoding, at,
			fmt.Errorf("empty BIT STRING declares %d unused bit(s)", u))
	}

	// DER: pad bits in the final octet must be zero.
	if final && rule.canonical() && u > 0 {
		if payload[len(payload)-1]&(byte(1<<uint(u))-1) != 0 {
			return BitString{}, failAt(KindInvalidEncoding, at+len(content)-1,
				fmt.Errorf("non-zero pad bits in DER BIT STRING"))
		}
	}

	return BitString{Bytes: payload, BitLen: len(payload)*8 - u}, nil
}
