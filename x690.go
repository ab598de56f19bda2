/*
Package x690 implements the core of an ASN.1 BER/DER codec per ITU-T
Rec. X.690: tag-length-value framing, the universal primitive types,
constructed composition (SEQUENCE, SET, their -OF forms and CHOICE),
and a reflection-driven deriver that binds annotated Go structs to the
composer.

The package exposes two encoding rules. [BER] is permissive on decode:
indefinite lengths, long-form lengths that could be shorter, padded
INTEGER content and any nonzero BOOLEAN octet are all accepted. [DER]
refuses non-canonical framing, BOOLEAN, INTEGER, BIT STRING and time
encodings, constructed string segments and out-of-order SET / SET OF
components, and emits only canonical encodings. It does not refuse a
DEFAULT field encoded with its default value, and it accepts any
conformant REAL encoding. Both rules share one wire grammar; on encode
they differ only in that DER sorts SET and SET OF components.

Decoded values may alias the input buffer (OCTET STRING and BIT STRING
payloads are sub-slices of it); callers that outlive the buffer must
copy.
*/
package x690

/*
EncodingRule selects the transfer syntax honored by an encode or
decode operation.
*/
type EncodingRule uint8

const (
	// BER is the Basic Encoding Rules of ITU-T Rec. X.690.
	BER EncodingRule = iota

	// DER is the Distinguished Encoding Rules: the canonical
	// subset of BER.
	DER
)

/*
String returns the string representation of the receiver instance.
*/
func (r EncodingRule) String() string {
	if r == DER {
		return "DER"
	}
	return "BER"
}

// canonical reports whether the rule refuses non-canonical encodings.
func (r EncodingRule) canonical() bool { return r == DER }

/*
Class is the identifier-octet class of an ASN.1 tag.
*/
type Class uint8

const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

/*
String returns the string representation of the receiver instance.
*/
func (r Class) String() string {
	switch r {
	case ClassApplication:
		return "APPLICATION"
	case ClassContextSpecific:
		return "CONTEXT-SPECIFIC"
	case ClassPrivate:
		return "PRIVATE"
	}
	return "UNIVERSAL"
}

/*
TagID identifies an ASN.1 tag: a class paired with a non-negative tag
number. Numbers of 31 and above travel in the multi-byte high-tag-number
form on the wire.
*/
type TagID struct {
	Class  Class
	Number uint32
}

/*
String returns the string representation of the receiver instance.
*/
func (r TagID) String() string {
	return r.Class.String() + " " + utoa(uint64(r.Number))
}

// uni is shorthand for a universal-class TagID.
func uni(n uint32) TagID { return TagID{Class: ClassUniversal, Number: n} }

// Universal tag numbers used by this package.
const (
	tagBoolean         = 1
	tagInteger         = 2
	tagBitString       = 3
	tagOctetString     = 4
	tagNull            = 5
	tagOID             = 6
	tagReal            = 9
	tagEnumerated      = 10
	tagUTF8String      = 12
	tagRelativeOID     = 13
	tagSequence        = 16
	tagSet             = 17
	tagNumericString   = 18
	tagPrintableString = 19
	tagIA5String       = 22
	tagUTCTime         = 23
	tagGeneralizedTime = 24
	tagVisibleString   = 26
	tagBMPString       = 30
)
