package x690

/*
options.go parses the per-field annotations of the deriver. A struct
field opts into codec behavior through the "asn1" struct tag:

	Version  Int         `asn1:"tag:0"`            // IMPLICIT [0]
	Token    OctetString `asn1:"tag:1,explicit"`   // EXPLICIT [1]
	Comment  UTF8String  `asn1:"optional"`
	Retries  Int         `asn1:"default:3"`
	Name     string      `asn1:"printable"`
	Body     Choice      `asn1:"choices:body"`
	Attrs    Attributes  `asn1:"set"`
	Class    Int         `asn1:"tag:2,application"`

Tagged fields are IMPLICIT unless the explicit token appears; the
class defaults to context-specific and may be overridden with the
application or private tokens. String and time fields select their
universal type through a format token (utf8, ia5, printable, numeric,
visible, bmp, utc, generalized).
*/

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type fieldOptions struct {
	tag      int // -1: no override
	class    Class
	explicit bool
	optional bool
	set      bool
	format   string
	choices  string

	hasDefault bool
	defInt     int64
	defBool    bool
	defIsBool  bool
}

// noOptions is the zero annotation: no tag override, no modifiers.
func noOptions() fieldOptions { return fieldOptions{tag: -1} }

func parseFieldOptions(tag reflect.StructTag) (fieldOptions, error) {
	o := noOptions()
	o.class = ClassContextSpecific

	raw, ok := tag.Lookup("asn1")
	if !ok || raw == "" {
		return o, nil
	}

	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		switch {
		case tok == "":
		case strings.HasPrefix(tok, "tag:"):
			n, err := strconv.Atoi(tok[4:])
			if err != nil || n < 0 {
				return o, fmt.Errorf("asn1 tag: invalid tag number %q", tok[4:])
			}
			o.tag = n
		case strings.HasPrefix(tok, "default:"):
			if err := o.parseDefault(tok[8:]); err != nil {
				return o, err
			}
		case strings.HasPrefix(tok, "choices:"):
			o.choices = tok[8:]
		case tok == "explicit":
			o.explicit = true
		case tok == "optional":
			o.optional = true
		case tok == "set":
			o.set = true
		case tok == "application":
			o.class = ClassApplication
		case tok == "private":
			o.class = ClassPrivate
		case tok == "universal":
			o.class = ClassUniversal
		case isFormatToken(tok):
			o.format = tok
		default:
			return o, fmt.Errorf("asn1 tag: unrecognized token %q", tok)
		}
	}

	if o.explicit && o.tag < 0 {
		return o, fmt.Errorf("asn1 tag: explicit requires a tag number")
	}
	return o, nil
}

func (o *fieldOptions) parseDefault(lit string) error {
	switch lit {
	case "true", "false":
		o.hasDefault, o.defIsBool = true, true
		o.defBool = lit == "true"
		return nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return fmt.Errorf("asn1 tag: unsupported default literal %q", lit)
	}
	o.hasDefault, o.defInt = true, n
	return nil
}

func isFormatToken(tok string) bool {
	switch tok {
	case "utf8", "ia5", "printable", "numeric", "visible", "bmp",
		"utc", "generalized", "enum":
		return true
	}
	return false
}

// overrideTag returns the wire identifier imposed by the annotation.
func (o fieldOptions) overrideTag() TagID {
	return TagID{Class: o.class, Number: uint32(o.tag)}
}

// element returns the annotation an element of a collection inherits:
// the format survives, tagging and field modifiers do not.
func (o fieldOptions) element() fieldOptions {
	e := noOptions()
	e.format = o.format
	e.choices = o.choices
	return e
}
