package x690

import (
	"bytes"
	"testing"
)

func init() {
	// measure CHOICE { text OCTET STRING, codedNumeric INTEGER }
	set, err := NewChoiceSet(Untagged, OctetString(nil), Int(0))
	if err != nil {
		panic(err)
	}
	RegisterChoiceSet("measure", set)

	// body CHOICE with automatic EXPLICIT [0]/[1] tags
	set, err = NewChoiceSet(TaggedExplicit, Int(0), OctetString(nil))
	if err != nil {
		panic(err)
	}
	RegisterChoiceSet("body", set)

	// label CHOICE with automatic IMPLICIT [0]/[1] tags
	set, err = NewChoiceSet(TaggedImplicit, UTF8String(""), Int(0))
	if err != nil {
		panic(err)
	}
	RegisterChoiceSet("label", set)
}

type measurement struct {
	V Choice `asn1:"choices:measure"`
}

func TestChoice_UntaggedDispatch(t *testing.T) {
	// INTEGER 42 selects the codedNumeric alternative.
	var out measurement
	if _, err := Decode(BER, []byte{0x30, 0x03, 0x02, 0x01, 0x2A}, &out); err != nil {
		t.Fatalf("%s failed: %v", t.Name(), err)
	}
	n, ok := out.V.Value.(Int)
	if !ok || n != 42 {
		t.Fatalf("%s failed: decoded %#v", t.Name(), out.V.Value)
	}

	// An OCTET STRING selects text.
	if _, err := Decode(BER, []byte{0x30, 0x04, 0x04, 0x02, 0x68, 0x69}, &out); err != nil {
		t.Fatalf("%s failed: %v", t.Name(), err)
	}
	s, ok := out.V.Value.(OctetString)
	if !ok || string(s) != "hi" {
		t.Fatalf("%s failed: decoded %#v", t.Name(), out.V.Value)
	}

	// Encoding mirrors the dispatch.
	enc, err := Encode(DER, measurement{V: Choice{Value: Int(42)}})
	if err != nil {
		t.Fatalf("%s failed [encode]: %v", t.Name(), err)
	}
	if !bytes.Equal(enc, []byte{0x30, 0x03, 0x02, 0x01, 0x2A}) {
		t.Fatalf("%s failed [encode]: % X", t.Name(), enc)
	}
}

func TestChoice_NoMatchingVariant(t *testing.T) {
	// NULL matches neither alternative of measure.
	var out measurement
	_, err := Decode(BER, []byte{0x30, 0x02, 0x05, 0x00}, &out)
	if err == nil {
		t.Fatalf("%s failed: NULL accepted by a CHOICE without a NULL alternative", t.Name())
	}
	if kind, ok := KindOf(err); !ok || kind != KindNoMatchingVariant {
		t.Fatalf("%s failed: expected no-matching-variant condition, got %v", t.Name(), err)
	}
	// The failure cites the peeked tag and the admissible set.
	for _, needle := range []string{"UNIVERSAL 5", "UNIVERSAL 2", "UNIVERSAL 4"} {
		if !containsStr(err.Error(), needle) {
			t.Fatalf("%s failed: %q absent from %v", t.Name(), needle, err)
		}
	}

	// Encoding a foreign alternative fails the same way.
	_, err = Encode(DER, measurement{V: Choice{Value: Boolean(true)}})
	if kind, ok := KindOf(err); !ok || kind != KindNoMatchingVariant {
		t.Fatalf("%s failed: expected no-matching-variant condition, got %v", t.Name(), err)
	}
}

func TestChoice_TaggedExplicit(t *testing.T) {
	type envelope struct {
		B Choice `asn1:"choices:body"`
	}

	mine := envelope{B: Choice{Value: OctetString("hi")}}

	var out envelope
	enc := roundTrip(t, DER, mine, &out)
	// Alternative 1 wraps EXPLICIT [1].
	want := []byte{0x30, 0x06, 0xA1, 0x04, 0x04, 0x02, 0x68, 0x69}
	if !bytes.Equal(enc, want) {
		t.Fatalf("%s failed:\n\twant: % X\n\tgot:  % X", t.Name(), want, enc)
	}
	s, ok := out.B.Value.(OctetString)
	if !ok || string(s) != "hi" {
		t.Fatalf("%s failed: decoded %#v", t.Name(), out.B.Value)
	}

	// Residue inside the wrapper is refused.
	bad := []byte{0x30, 0x08, 0xA1, 0x06, 0x04, 0x02, 0x68, 0x69, 0x05, 0x00}
	_, err := Decode(BER, bad, &out)
	if kind, ok := KindOf(err); !ok || kind != KindUnexpectedTrailing {
		t.Fatalf("%s failed: expected unexpected-trailing condition, got %v", t.Name(), err)
	}
}

func TestChoice_TaggedImplicit(t *testing.T) {
	type tagged struct {
		L Choice `asn1:"choices:label"`
	}

	mine := tagged{L: Choice{Value: UTF8String("abc")}}

	var out tagged
	enc := roundTrip(t, BER, mine, &out)
	// Alternative 0 retags IMPLICIT [0]: primitive, content unchanged.
	want := []byte{0x30, 0x05, 0x80, 0x03, 0x61, 0x62, 0x63}
	if !bytes.Equal(enc, want) {
		t.Fatalf("%s failed:\n\twant: % X\n\tgot:  % X", t.Name(), want, enc)
	}
	s, ok := out.L.Value.(UTF8String)
	if !ok || s != "abc" {
		t.Fatalf("%s failed: decoded %#v", t.Name(), out.L.Value)
	}
}

func TestChoiceSet_DeclarationChecks(t *testing.T) {
	// Overlapping untagged alternatives are rejected at declaration.
	if _, err := NewChoiceSet(Untagged, Int(0), Enumerated(0), Int(1)); err == nil {
		t.Fatalf("%s failed: overlapping tags accepted", t.Name())
	}

	// Polymorphic alternatives cannot be untagged.
	if _, err := NewChoiceSet(Untagged, RawValue{}); err == nil {
		t.Fatalf("%s failed: tagless alternative accepted", t.Name())
	}

	// Either is fine under automatic tagging.
	if _, err := NewChoiceSet(TaggedExplicit, Int(0), Int(0)); err != nil {
		t.Fatalf("%s failed: %v", t.Name(), err)
	}

	if _, err := NewChoiceSet(Untagged); err == nil {
		t.Fatalf("%s failed: empty declaration accepted", t.Name())
	}
}

func containsStr(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
