package mpris

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/godbus/dbus/v5"
)

// Kind is the tag of a Value.
type Kind int

const (
	OtherKind Kind = iota
	StringKind
	ObjectPathKind
	ArrayKind
	EntryKind
	VariantKind
)

func (k Kind) String() string {
	switch k {
	case StringKind:
		return "string"
	case ObjectPathKind:
		return "object-path"
	case ArrayKind:
		return "array"
	case EntryKind:
		return "dict-entry"
	case VariantKind:
		return "variant"
	default:
		return "other"
	}
}

// Value is a decoded reply element. The set of implementations is closed:
// String, ObjectPath, Array, Entry, Variant and Other.
type Value interface {
	Kind() Kind
}

type String string

type ObjectPath string

type Array []Value

// Entry is one key/value pair of a dictionary.
type Entry struct {
	Key   Value
	Value Value
}

// Variant wraps exactly one value.
type Variant struct {
	Value Value
}

// Other carries any wire value the decoder has no use for (numbers, booleans,
// structs, ...). Decoders stop on it.
type Other struct {
	Raw interface{}
}

func (String) Kind() Kind     { return StringKind }
func (ObjectPath) Kind() Kind { return ObjectPathKind }
func (Array) Kind() Kind      { return ArrayKind }
func (Entry) Kind() Kind      { return EntryKind }
func (Variant) Kind() Kind    { return VariantKind }
func (Other) Kind() Kind      { return OtherKind }

func kindOf(v Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Kind().String()
}

// FromWire converts a value decoded by godbus into a Value tree.
//
// godbus turns dictionaries into Go maps, so entries come out sorted by key
// rather than in wire order.
func FromWire(v interface{}) Value {
	switch w := v.(type) {
	case Value:
		return w
	case dbus.Variant:
		return Variant{Value: FromWire(w.Value())}
	case string:
		return String(w)
	case dbus.ObjectPath:
		return ObjectPath(w)
	case []dbus.ObjectPath:
		array := make(Array, len(w))
		for i, path := range w {
			array[i] = ObjectPath(path)
		}
		return array
	case []string:
		array := make(Array, len(w))
		for i, s := range w {
			array[i] = String(s)
		}
		return array
	case []dbus.Variant:
		array := make(Array, len(w))
		for i, variant := range w {
			array[i] = FromWire(variant)
		}
		return array
	case map[string]dbus.Variant:
		keys := make([]string, 0, len(w))
		for key := range w {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		array := make(Array, len(keys))
		for i, key := range keys {
			array[i] = Entry{Key: String(key), Value: FromWire(w[key])}
		}
		return array
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		array := make(Array, rv.Len())
		for i := range array {
			array[i] = FromWire(rv.Index(i).Interface())
		}
		return array
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		array := make(Array, len(keys))
		for i, key := range keys {
			array[i] = Entry{
				Key:   FromWire(key.Interface()),
				Value: FromWire(rv.MapIndex(key).Interface()),
			}
		}
		return array
	}
	return Other{Raw: v}
}
