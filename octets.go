package x690

/*
octets.go implements the ASN.1 OCTET STRING (tag 4) and NULL (tag 5)
types, plus the RawValue escape hatch for uninterpreted elements.
*/

import "fmt"

/*
OctetString implements the ASN.1 OCTET STRING type. Decoded instances
alias the input buffer; use [OctetString.Clone] for a value that
outlives it.
*/
type OctetString []byte

/*
Tag returns UNIVERSAL 4.
*/
func (r OctetString) Tag() TagID { return uni(tagOctetString) }

// Clone returns an owned copy of the receiver.
func (r OctetString) Clone() OctetString {
	return append(OctetString(nil), r...)
}

func (r OctetString) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	return append(dst, r...), nil
}

func (r *OctetString) readContent(content []byte, _ int, _ EncodingRule) error {
	*r = content
	return nil
}

// readSegments joins a BER segmented encoding.
func (r *OctetString) readSegments(segs [][]byte, _ int, _ EncodingRule) error {
	var out []byte
	for _, s := range segs {
		out = append(out, s...)
	}
	*r = out
	return nil
}

/*
Null implements the ASN.1 NULL type. Its content is always empty.
*/
type Null struct{}

/*
Tag returns UNIVERSAL 5.
*/
func (r Null) Tag() TagID { return uni(tagNull) }

func (r Null) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	return dst, nil
}

func (r *Null) readContent(content []byte, at int, _ EncodingRule) error {
	if len(content) != 0 {
		return failAt(KindUnexpectedTrailing, at,
			fmt.Errorf("NULL content must be empty"))
	}
	return nil
}

/*
RawValue captures one complete element without interpreting it: the
decoded header plus its content octets, aliasing the input buffer.
It stands in for the ANY type and absorbs extension elements.
*/
type RawValue struct {
	Header  Header
	Content []byte
}

/*
Tag returns the captured identifier.
*/
func (r RawValue) Tag() TagID { return r.Header.Tag }

// decodeRaw consumes one complete TLV into a RawValue.
func decodeRaw(c *Cursor, rule EncodingRule) (rv RawValue, err error) {
	if rv.Header, err = parseHeader(c, rule); err != nil {
		return
	}
	var body Cursor
	if body, err = rv.Header.content(c, rule); err == nil {
		rv.Content = body.Bytes()
	}
	return
}

// appendRaw re-emits a captured element with a minimal definite
// length, regardless of the form it arrived in.
func appendRaw(dst []byte, rv RawValue) []byte {
	return appendTLV(dst, rv.Header.Tag, rv.Header.Constructed, rv.Content)
}
