package x690

/*
choice.go implements the ASN.1 CHOICE dispatcher. A ChoiceSet names
the admissible alternatives of one CHOICE declaration; decoding peeks
the next header and selects the alternative whose wire tag matches,
without consuming input until a variant is chosen.
*/

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

/*
Choice holds the decoded alternative of a CHOICE field. Value carries
a value of one of the alternative types registered for the field's
[ChoiceSet].
*/
type Choice struct {
	Value any
}

/*
TaggingMode selects how the alternatives of a [ChoiceSet] are
distinguished on the wire.
*/
type TaggingMode uint8

const (
	// Untagged alternatives travel under their own tags, which must
	// be pairwise distinct.
	Untagged TaggingMode = iota

	// TaggedExplicit wraps alternative i in EXPLICIT [i].
	TaggedExplicit

	// TaggedImplicit retags alternative i as IMPLICIT [i].
	TaggedImplicit
)

type choiceAlt struct {
	wire TagID
	typ  reflect.Type
}

/*
ChoiceSet is the compiled alternative table of one CHOICE
declaration. Build one with [NewChoiceSet] and attach it to fields
through [RegisterChoiceSet] and a `choices:` annotation.
*/
type ChoiceSet struct {
	mode TaggingMode
	alts []choiceAlt
}

/*
NewChoiceSet compiles a CHOICE declaration from prototype values, one
per alternative, in declaration order. Under [Untagged] every
prototype must carry a distinct static tag; the tagged modes number
the alternatives 0..N-1 with context-specific tags. Overlapping wire
tags are rejected here, at declaration time.
*/
func NewChoiceSet(mode TaggingMode, protos ...any) (ChoiceSet, error) {
	cs := ChoiceSet{mode: mode}
	seen := map[TagID]int{}

	for i, p := range protos {
		rt := reflect.TypeOf(p)
		if rt == nil {
			return cs, fmt.Errorf("choice: alternative %d is untyped nil", i)
		}

		var wire TagID
		if mode == Untagged {
			tag, ok := staticTag(rt, noOptions())
			if !ok {
				return cs, fmt.Errorf("choice: alternative %d (%s) has no static tag", i, rt)
			}
			wire = tag
		} else {
			wire = TagID{Class: ClassContextSpecific, Number: uint32(i)}
		}

		if prev, dup := seen[wire]; dup {
			return cs, fmt.Errorf("choice: alternatives %d and %d share tag %s", prev, i, wire.String())
		}
		seen[wire] = i
		cs.alts = append(cs.alts, choiceAlt{wire: wire, typ: rt})
	}

	if len(cs.alts) == 0 {
		return cs, fmt.Errorf("choice: no alternatives declared")
	}
	return cs, nil
}

// admissible renders the registered wire tags for dispatch failures.
func (r ChoiceSet) admissible() string {
	parts := make([]string, len(r.alts))
	for i, a := range r.alts {
		parts[i] = a.wire.String()
	}
	sort.Strings(parts)
	s := parts[0]
	for _, p := range parts[1:] {
		s += ", " + p
	}
	return s
}

var (
	choiceMu   sync.RWMutex
	choiceSets = map[string]ChoiceSet{}
)

/*
RegisterChoiceSet associates name with a compiled [ChoiceSet] for use
in `choices:name` annotations.
*/
func RegisterChoiceSet(name string, set ChoiceSet) {
	choiceMu.Lock()
	defer choiceMu.Unlock()
	choiceSets[name] = set
}

func lookupChoiceSet(name string) (ChoiceSet, bool) {
	choiceMu.RLock()
	defer choiceMu.RUnlock()
	cs, ok := choiceSets[name]
	return cs, ok
}

func decodeChoice(c *Cursor, rule EncodingRule, name string, rv reflect.Value) error {
	cs, ok := lookupChoiceSet(name)
	if !ok {
		return failAt(KindNoMatchingVariant, c.Position(),
			fmt.Errorf("no CHOICE set registered under %q", name))
	}

	h, err := peekHeader(*c, rule)
	if err != nil {
		return err
	}

	var alt *choiceAlt
	for i := range cs.alts {
		if cs.alts[i].wire == h.Tag {
			alt = &cs.alts[i]
			break
		}
	}
	if alt == nil {
		return failAt(KindNoMatchingVariant, h.at,
			fmt.Errorf("peeked %s matches no alternative; admissible: %s",
				h.Tag.String(), cs.admissible()))
	}

	elem := reflect.New(alt.typ).Elem()
	switch cs.mode {
	case TaggedExplicit:
		h, err = parseHeader(c, rule)
		if err != nil {
			return err
		}
		if !h.Constructed {
			return failAt(KindInvalidEncoding, h.at,
				fmt.Errorf("EXPLICIT CHOICE wrapper must be constructed"))
		}
		inner, err := h.content(c, rule)
		if err != nil {
			return err
		}
		if err = decodeReflect(&inner, rule, elem, noOptions()); err != nil {
			return err
		}
		if !inner.Empty() {
			return failAt(KindUnexpectedTrailing, inner.Position(),
				fmt.Errorf("trailing content inside CHOICE wrapper"))
		}
	case TaggedImplicit:
		o := noOptions()
		o.tag = int(alt.wire.Number)
		o.class = alt.wire.Class
		if err = decodeReflect(c, rule, elem, o); err != nil {
			return err
		}
	default:
		if err = decodeReflect(c, rule, elem, noOptions()); err != nil {
			return err
		}
	}

	rv.Set(reflect.ValueOf(Choice{Value: elem.Interface()}))
	return nil
}

func encodeChoice(dst []byte, rule EncodingRule, name string, ch Choice) ([]byte, error) {
	cs, ok := lookupChoiceSet(name)
	if !ok {
		return dst, failValue(KindNoMatchingVariant,
			fmt.Errorf("no CHOICE set registered under %q", name))
	}
	if ch.Value == nil {
		return dst, failValue(KindNoMatchingVariant,
			fmt.Errorf("CHOICE value is empty"))
	}

	vt := reflect.TypeOf(ch.Value)
	var alt *choiceAlt
	for i := range cs.alts {
		if cs.alts[i].typ == vt {
			alt = &cs.alts[i]
			break
		}
	}
	if alt == nil {
		return dst, failValue(KindNoMatchingVariant,
			fmt.Errorf("%s is not an alternative of CHOICE %q", vt, name))
	}

	rv := reflect.ValueOf(ch.Value)
	switch cs.mode {
	case TaggedExplicit:
		inner, err := encodeReflect(nil, rule, rv, noOptions())
		if err != nil {
			return dst, err
		}
		return appendTLV(dst, alt.wire, true, inner), nil
	case TaggedImplicit:
		o := noOptions()
		o.tag = int(alt.wire.Number)
		o.class = alt.wire.Class
		return encodeReflect(dst, rule, rv, o)
	default:
		return encodeReflect(dst, rule, rv, noOptions())
	}
}
