package x690

/*
oid.go implements the ASN.1 OBJECT IDENTIFIER (tag 6) and RELATIVE-OID
(tag 13) types directly from X.690 §8.19-§8.20: base-128 arc encoding
with MSB continuation, and the combined leading octet carrying the
first two arcs. Arcs are bounded at uint64 here; wider arcs are
refused as unsupported rather than silently truncated.
*/

import (
	"fmt"
	"strings"
)

/*
OID implements the ASN.1 OBJECT IDENTIFIER type as its arc sequence.
A valid OID has at least two arcs, the first in {0,1,2}, and a second
arc below 40 unless the first arc is 2.
*/
type OID []uint64

/*
Tag returns UNIVERSAL 6.
*/
func (r OID) Tag() TagID { return uni(tagOID) }

/*
String returns the dotted form of the receiver instance.
*/
func (r OID) String() string {
	parts := make([]string, len(r))
	for i, arc := range r {
		parts[i] = utoa(arc)
	}
	return strings.Join(parts, ".")
}

/*
ParseOID parses a dotted object identifier such as "1.3.6.1".
*/
func ParseOID(s string) (OID, error) {
	parts := strings.Split(s, ".")
	out := make(OID, 0, len(parts))
	for _, p := range parts {
		arc, err := atou(p)
		if err != nil {
			return nil, failValue(KindInvalidEncoding,
				fmt.Errorf("invalid OID arc %q", p))
		}
		out = append(out, arc)
	}
	if err := out.check(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r OID) check() error {
	if len(r) < 2 {
		return failValue(KindInvalidEncoding,
			fmt.Errorf("OID requires at least two arcs"))
	}
	if r[0] > 2 {
		return failValue(KindInvalidEncoding,
			fmt.Errorf("first OID arc must be 0, 1 or 2"))
	}
	if r[0] < 2 && r[1] > 39 {
		return failValue(KindInvalidEncoding,
			fmt.Errorf("second OID arc must be below 40 under arc %d", r[0]))
	}
	return nil
}

func (r OID) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	if err := r.check(); err != nil {
		return dst, err
	}

	first := r[0]*40 + r[1]
	dst = appendArc(dst, first)
	for _, arc := range r[2:] {
		dst = appendArc(dst, arc)
	}
	return dst, nil
}

func (r *OID) readContent(content []byte, at int, _ EncodingRule) error {
	arcs, err := parseArcs(content, at)
	if err != nil {
		return err
	}
	if len(arcs) == 0 {
		return failAt(KindInvalidEncoding, at,
			fmt.Errorf("OID content is empty"))
	}

	out := make(OID, 0, len(arcs)+1)
	switch first := arcs[0]; {
	case first < 40:
		out = append(out, 0, first)
	case first < 80:
		out = append(out, 1, first-40)
	default:
		out = append(out, 2, first-80)
	}
	out = append(out, arcs[1:]...)
	*r = out
	return nil
}

/*
RelativeOID implements the ASN.1 RELATIVE-OID type: the same arc
encoding as [OID] without the combined leading octet.
*/
type RelativeOID []uint64

/*
Tag returns UNIVERSAL 13.
*/
func (r RelativeOID) Tag() TagID { return uni(tagRelativeOID) }

/*
String returns the dotted form of the receiver instance.
*/
func (r RelativeOID) String() string { return OID(r).String() }

func (r RelativeOID) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	for _, arc := range r {
		dst = appendArc(dst, arc)
	}
	return dst, nil
}

func (r *RelativeOID) readContent(content []byte, at int, _ EncodingRule) error {
	arcs, err := parseArcs(content, at)
	if err == nil {
		*r = arcs
	}
	return err
}

// appendArc appends one arc in base-128, MSB continuation.
func appendArc(dst []byte, arc uint64) []byte {
	var tmp [10]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte(arc & 0x7f)
		arc >>= 7
		if arc == 0 {
			break
		}
	}
	for j := i; j < len(tmp)-1; j++ {
		tmp[j] |= 0x80
	}
	return append(dst, tmp[i:]...)
}

/*
parseArcs decodes a run of base-128 arcs. A continuation chain that
starts with 0x80 is non-minimal; one that outgrows uint64 is refused
as unsupported.
*/
func parseArcs(content []byte, at int) ([]uint64, error) {
	var arcs []uint64
	i := 0
	for i < len(content) {
		start := i
		if content[i] == 0x80 {
			return nil, failAt(KindInvalidEncoding, at+i,
				fmt.Errorf("leading zero octet in OID arc"))
		}

		var arc uint64
		for {
			if i == len(content) {
				return nil, errIncomplete(at+len(content), 1)
			}
			b := content[i]
			i++
			if arc >= 1<<57 {
				return nil, failAt(KindUnsupported, at+start,
					fmt.Errorf("OID arc exceeds 64 bits"))
			}
			arc = arc<<7 | uint64(b&0x7f)
			if b&0x80 == 0 {
				break
			}
		}
		arcs = append(arcs, arc)
	}
	return arcs, nil
}
