package x690

/*
value.go defines the capability bundle every typed value implements:
a static tag plus content parsers and serializers over a bounded
slice. The SET composer and the CHOICE dispatcher peek headers and
match them against Tag() without invoking any parser; this is the
dynamic tag contract. SEQUENCE decoding instead runs each field's
parser and backtracks on a tag mismatch.
*/

import "fmt"

/*
Value is implemented by every type with a declared ASN.1 tag. Tag
returns the outermost identifier a value of the type encodes under,
enabling peek-based dispatch.
*/
type Value interface {
	Tag() TagID
}

// contentWriter is the encode half of a primitive codec: it renders
// content octets only; framing is the caller's concern.
type contentWriter interface {
	Value
	appendContent(dst []byte, rule EncodingRule) ([]byte, error)
}

// contentReader is the decode half: content arrives as a bounded
// slice, with at holding the absolute offset of its first byte for
// error reporting. Implementations must account for every byte.
type contentReader interface {
	Value
	readContent(content []byte, at int, rule EncodingRule) error
}

// segmented is implemented by the two primitives BER permits in
// constructed, segmented form: OCTET STRING and BIT STRING.
type segmented interface {
	readSegments(segs [][]byte, at int, rule EncodingRule) error
}

/*
decodeValue reads one complete TLV whose identifier must match want
and hands the content to t.
*/
func decodeValue(c *Cursor, rule EncodingRule, want TagID, t contentReader) error {
	h, err := parseHeader(c, rule)
	if err != nil {
		return err
	}
	return decodeContent(c, rule, h, want, t)
}

/*
decodeContent consumes the content region governed by an
already-parsed header and hands it to t. Constructed encodings of
primitive types are honored on the BER path for the segmented string
types and refused everywhere else.
*/
func decodeContent(c *Cursor, rule EncodingRule, h Header, want TagID, t contentReader) error {
	if h.Tag != want {
		return errTagMismatch(h.at, want, h.Tag)
	}

	if !h.Constructed {
		body, err := c.sub(h.Length)
		if err != nil {
			return err
		}
		return t.readContent(body.Bytes(), body.Position(), rule)
	}

	seg, ok := t.(segmented)
	if !ok || rule.canonical() {
		return failAt(KindInvalidEncoding, h.at,
			fmt.Errorf("constructed form of primitive %s", want.String()))
	}

	inner, err := h.content(c, rule)
	if err != nil {
		return err
	}

	at := inner.Position()
	var segs [][]byte
	for !inner.Empty() {
		sh, err := parseHeader(&inner, rule)
		if err != nil {
			return err
		}
		if sh.Constructed || sh.Tag != want {
			return failAt(KindInvalidEncoding, sh.at,
				fmt.Errorf("malformed segment inside constructed %s", want.String()))
		}
		body, err := inner.sub(sh.Length)
		if err != nil {
			return err
		}
		segs = append(segs, body.Bytes())
	}

	return seg.readSegments(segs, at, rule)
}

/*
appendValue appends the complete encoding of v under its own tag.
*/
func appendValue(dst []byte, rule EncodingRule, v contentWriter) ([]byte, error) {
	return appendValueAs(dst, rule, v, v.Tag())
}

/*
appendValueAs appends the complete encoding of v framed as a primitive
TLV under tag.
*/
func appendValueAs(dst []byte, rule EncodingRule, v contentWriter, tag TagID) ([]byte, error) {
	content, err := v.appendContent(nil, rule)
	if err != nil {
		return dst, err
	}
	return appendTLV(dst, tag, false, content), nil
}
