package x690

/*
header.go implements the identifier- and length-octet codec: the
framing layer beneath every TLV. Decoding enforces minimal identifier
forms under both rules and, on the DER path, minimal definite lengths.
Encoding always emits the minimal form.
*/

import "fmt"

// Tag numbers at or beyond this bound are refused rather than parsed.
const maxTagNumber = 1 << 28

/*
Header is one decoded identifier-and-length prefix: the tag, the
constructed bit, and the content length. A Length of -1 denotes the
BER indefinite form, terminated by the end-of-contents sentinel.
*/
type Header struct {
	Tag         TagID
	Constructed bool
	Length      int

	at int // offset of the identifier octet
}

/*
parseHeader decodes the identifier and length octets at the cursor.
The cursor advances past both; content bytes remain unread.
*/
func parseHeader(c *Cursor, rule EncodingRule) (h Header, err error) {
	h.at = c.Position()

	b0, err := c.takeByte()
	if err != nil {
		return
	}

	h.Tag.Class = Class(b0 >> 6)
	h.Constructed = b0&0x20 != 0

	if n := uint32(b0 & 0x1f); n != 0x1f {
		h.Tag.Number = n
	} else if h.Tag.Number, err = parseHighTag(c); err != nil {
		return
	}

	h.Length, err = parseLength(c, rule, h.Constructed)
	return
}

/*
parseHighTag accumulates the multi-byte tag-number form: base-128
continuation octets, most significant first. A leading zero octet is
redundant and refused, as is a number that fits the short form.
*/
func parseHighTag(c *Cursor) (uint32, error) {
	at := c.Position()
	var n uint32

	for i := 0; ; i++ {
		b, err := c.takeByte()
		if err != nil {
			return 0, err
		}
		if i == 0 && b == 0x80 {
			return 0, failAt(KindNonCanonicalTag, at,
				fmt.Errorf("leading zero octet in high tag number"))
		}
		if n >= maxTagNumber>>7 {
			return 0, failAt(KindUnsupported, at,
				fmt.Errorf("tag number exceeds 2^28"))
		}
		n = n<<7 | uint32(b&0x7f)
		if b&0x80 == 0 {
			break
		}
	}

	if n < 0x1f {
		return 0, failAt(KindNonCanonicalTag, at,
			fmt.Errorf("tag number %d does not require the long form", n))
	}

	return n, nil
}

/*
parseLength decodes a short-form, long-form or indefinite length. The
indefinite form requires the constructed bit and is BER-only; on the
DER path any long form that would fit a shorter one is refused.
*/
func parseLength(c *Cursor, rule EncodingRule, constructed bool) (int, error) {
	at := c.Position()

	b0, err := c.takeByte()
	if err != nil {
		return 0, err
	}
	if b0&0x80 == 0 {
		return int(b0), nil
	}

	k := int(b0 & 0x7f)
	if k == 0 {
		// Indefinite.
		if rule.canonical() {
			return 0, failAt(KindNonCanonicalLength, at,
				fmt.Errorf("indefinite length on the %s path", rule.String()))
		}
		if !constructed {
			return 0, failAt(KindInvalidLength, at,
				fmt.Errorf("indefinite length on a primitive encoding"))
		}
		return -1, nil
	}
	if k == 0x7f {
		return 0, failAt(KindInvalidLength, at,
			fmt.Errorf("reserved length octet 0xFF"))
	}

	raw, err := c.take(k)
	if err != nil {
		return 0, err
	}

	if rule.canonical() && raw[0] == 0 {
		return 0, failAt(KindNonCanonicalLength, at,
			fmt.Errorf("leading zero in long-form length"))
	}

	var n uint64
	for _, b := range raw {
		if n >= 1<<55 {
			return 0, failAt(KindUnsupported, at,
				fmt.Errorf("length exceeds implementation bounds"))
		}
		n = n<<8 | uint64(b)
	}

	if rule.canonical() && n < 0x80 {
		return 0, failAt(KindNonCanonicalLength, at,
			fmt.Errorf("long-form length %d fits the short form", n))
	}

	return int(n), nil
}

/*
content consumes and returns the value region governed by h. For the
indefinite form the region spans up to, and the cursor past, the
end-of-contents sentinel.
*/
func (h Header) content(c *Cursor, rule EncodingRule) (Cursor, error) {
	if h.Length >= 0 {
		return c.sub(h.Length)
	}

	n, err := measureIndefinite(*c, rule)
	if err != nil {
		return Cursor{}, err
	}
	inner, err := c.sub(n)
	if err == nil {
		_, err = c.take(2) // the sentinel itself
	}
	return inner, err
}

/*
measureIndefinite walks complete child TLVs from a copy of c until the
end-of-contents sentinel, returning the byte extent of the content
that precedes it.
*/
func measureIndefinite(c Cursor, rule EncodingRule) (int, error) {
	start := c.Position()
	for {
		if c.Remaining() >= 2 && c.data[0] == 0 && c.data[1] == 0 {
			return c.Position() - start, nil
		}
		if c.Empty() {
			return 0, errIncomplete(c.Position(), 2)
		}
		if err := skipValue(&c, rule); err != nil {
			return 0, err
		}
	}
}

// skipValue advances the cursor past one complete TLV.
func skipValue(c *Cursor, rule EncodingRule) error {
	h, err := parseHeader(c, rule)
	if err != nil {
		return err
	}
	_, err = h.content(c, rule)
	return err
}

/*
peekHeader decodes the next header without consuming input.
*/
func peekHeader(c Cursor, rule EncodingRule) (Header, error) {
	return parseHeader(&c, rule)
}

/*
appendHeader appends the minimal identifier and definite-length octets
for tag, the constructed bit and a content length of n.
*/
func appendHeader(dst []byte, tag TagID, constructed bool, n int) []byte {
	b0 := byte(tag.Class) << 6
	if constructed {
		b0 |= 0x20
	}

	if tag.Number < 0x1f {
		dst = append(dst, b0|byte(tag.Number))
	} else {
		dst = append(dst, b0|0x1f)
		dst = appendBase128(dst, tag.Number)
	}

	return appendLength(dst, n)
}

// appendBase128 appends v in base-128 continuation octets, MSB first.
func appendBase128(dst []byte, v uint32) []byte {
	var tmp [5]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			break
		}
	}
	for j := i; j < len(tmp)-1; j++ {
		tmp[j] |= 0x80
	}
	return append(dst, tmp[i:]...)
}

// appendLength appends the minimal definite-length octets for n.
func appendLength(dst []byte, n int) []byte {
	if n < 0x80 {
		return append(dst, byte(n))
	}

	var tmp [8]byte
	i := len(tmp)
	for v := uint64(n); v > 0; v >>= 8 {
		i--
		tmp[i] = byte(v)
	}
	dst = append(dst, 0x80|byte(len(tmp)-i))
	return append(dst, tmp[i:]...)
}

// appendTLV appends one complete encoding: header plus content.
func appendTLV(dst []byte, tag TagID, constructed bool, content []byte) []byte {
	dst = appendHeader(dst, tag, constructed, len(content))
	return append(dst, content...)
}
