package x690

import (
	"bytes"
	"testing"
)

func TestParseHeader_Forms(t *testing.T) {
	for idx, tc := range []struct {
		name  string
		in    []byte
		rule  EncodingRule
		tag   TagID
		cons  bool
		n     int
		fails Kind
	}{
		{name: "short definite", in: []byte{0x02, 0x03}, rule: DER,
			tag: uni(tagInteger), n: 3},
		{name: "context constructed", in: []byte{0xA0, 0x00}, rule: DER,
			tag: TagID{Class: ClassContextSpecific}, cons: true, n: 0},
		{name: "application primitive", in: []byte{0x41, 0x01}, rule: BER,
			tag: TagID{Class: ClassApplication, Number: 1}, n: 1},
		{name: "high tag number", in: []byte{0x5F, 0x81, 0x48, 0x00}, rule: DER,
			tag: TagID{Class: ClassApplication, Number: 200}, n: 0},
		{name: "long form accepted on BER", in: []byte{0x04, 0x81, 0x05}, rule: BER,
			tag: uni(tagOctetString), n: 5},
		{name: "long form required", in: []byte{0x04, 0x81, 0x80}, rule: DER,
			tag: uni(tagOctetString), n: 128},
		{name: "indefinite on BER", in: []byte{0x30, 0x80}, rule: BER,
			tag: uni(tagSequence), cons: true, n: -1},

		{name: "truncated identifier", in: nil, rule: BER, fails: KindIncomplete},
		{name: "truncated length", in: []byte{0x02}, rule: BER, fails: KindIncomplete},
		{name: "leading zero in high tag", in: []byte{0x5F, 0x80, 0x48, 0x00}, rule: BER,
			fails: KindNonCanonicalTag},
		{name: "long form tag fits short", in: []byte{0x5F, 0x1E, 0x00}, rule: BER,
			fails: KindNonCanonicalTag},
		{name: "indefinite on DER", in: []byte{0x30, 0x80}, rule: DER,
			fails: KindNonCanonicalLength},
		{name: "indefinite primitive", in: []byte{0x04, 0x80}, rule: BER,
			fails: KindInvalidLength},
		{name: "long form fits short on DER", in: []byte{0x04, 0x81, 0x05}, rule: DER,
			fails: KindNonCanonicalLength},
		{name: "leading zero length on DER", in: []byte{0x04, 0x82, 0x00, 0x80}, rule: DER,
			fails: KindNonCanonicalLength},
		{name: "reserved length octet", in: []byte{0x04, 0xFF}, rule: BER,
			fails: KindInvalidLength},
	} {
		c := NewCursor(tc.in)
		h, err := parseHeader(&c, tc.rule)

		if tc.fails != KindUnknown {
			if err == nil {
				t.Fatalf("%s[%d:%s] failed: malformed header accepted", t.Name(), idx, tc.name)
			}
			if kind, ok := KindOf(err); !ok || kind != tc.fails {
				t.Fatalf("%s[%d:%s] failed: expected %s condition, got %v",
					t.Name(), idx, tc.name, tc.fails.String(), err)
			}
			continue
		}

		if err != nil {
			t.Fatalf("%s[%d:%s] failed: %v", t.Name(), idx, tc.name, err)
		}
		if h.Tag != tc.tag || h.Constructed != tc.cons || h.Length != tc.n {
			t.Fatalf("%s[%d:%s] failed: got %s constructed=%v length=%d",
				t.Name(), idx, tc.name, h.Tag.String(), h.Constructed, h.Length)
		}
	}
}

func TestAppendHeader_MinimalForms(t *testing.T) {
	for idx, tc := range []struct {
		tag  TagID
		cons bool
		n    int
		want []byte
	}{
		{tag: uni(tagInteger), n: 1, want: []byte{0x02, 0x01}},
		{tag: uni(tagSequence), cons: true, n: 7, want: []byte{0x30, 0x07}},
		{tag: TagID{Class: ClassContextSpecific, Number: 0}, cons: true, n: 3,
			want: []byte{0xA0, 0x03}},
		{tag: TagID{Class: ClassApplication, Number: 200}, n: 0,
			want: []byte{0x5F, 0x81, 0x48, 0x00}},
		{tag: uni(tagOctetString), n: 128, want: []byte{0x04, 0x81, 0x80}},
		{tag: uni(tagOctetString), n: 300, want: []byte{0x04, 0x82, 0x01, 0x2C}},
	} {
		got := appendHeader(nil, tc.tag, tc.cons, tc.n)
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("%s[%d] failed:\n\twant: % X\n\tgot:  % X", t.Name(), idx, tc.want, got)
		}
	}
}

func TestHeader_RoundTrip(t *testing.T) {
	for _, tag := range []TagID{
		uni(tagBoolean),
		uni(30),
		{Class: ClassContextSpecific, Number: 31},
		{Class: ClassPrivate, Number: 4095},
	} {
		for _, n := range []int{0, 1, 127, 128, 65536} {
			enc := appendHeader(nil, tag, false, n)
			c := NewCursor(enc)
			h, err := parseHeader(&c, DER)
			if err != nil {
				t.Fatalf("%s failed [%s/%d]: %v", t.Name(), tag.String(), n, err)
			}
			if h.Tag != tag || h.Length != n || !c.Empty() {
				t.Fatalf("%s failed [%s/%d]: round trip mismatch", t.Name(), tag.String(), n)
			}
		}
	}
}

func TestIndefinite_Measurement(t *testing.T) {
	// SEQUENCE (indefinite) { INTEGER 5 } EOC, then a trailing TLV.
	in := []byte{0x30, 0x80, 0x02, 0x01, 0x05, 0x00, 0x00, 0x01, 0x01, 0xFF}

	c := NewCursor(in)
	h, err := parseHeader(&c, BER)
	if err != nil {
		t.Fatalf("%s failed [header]: %v", t.Name(), err)
	}
	if h.Length != -1 {
		t.Fatalf("%s failed: expected indefinite length", t.Name())
	}

	body, err := h.content(&c, BER)
	if err != nil {
		t.Fatalf("%s failed [content]: %v", t.Name(), err)
	}
	if !bytes.Equal(body.Bytes(), []byte{0x02, 0x01, 0x05}) {
		t.Fatalf("%s failed: wrong content % X", t.Name(), body.Bytes())
	}
	if c.Remaining() != 3 {
		t.Fatalf("%s failed: sentinel not consumed, %d byte(s) remain", t.Name(), c.Remaining())
	}
}

func TestCursor_Positioning(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4})

	sub, err := c.sub(3)
	if err != nil {
		t.Fatalf("%s failed: %v", t.Name(), err)
	}
	if sub.Position() != 0 || c.Position() != 3 || sub.Remaining() != 3 {
		t.Fatalf("%s failed: positions %d/%d", t.Name(), sub.Position(), c.Position())
	}

	if _, err = sub.take(2); err != nil {
		t.Fatalf("%s failed: %v", t.Name(), err)
	}
	if sub.Position() != 2 {
		t.Fatalf("%s failed: sub position %d", t.Name(), sub.Position())
	}

	if _, err = c.take(5); err == nil {
		t.Fatalf("%s failed: overread accepted", t.Name())
	} else if kind, _ := KindOf(err); kind != KindIncomplete {
		t.Fatalf("%s failed: expected incomplete condition, got %v", t.Name(), err)
	}
}
