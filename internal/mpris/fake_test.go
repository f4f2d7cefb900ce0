package mpris

import (
	"github.com/godbus/dbus/v5"
)

type recordedCall struct {
	method string
	args   []interface{}
}

// fakeObject answers calls from a table keyed by method name and records
// every call it receives.
type fakeObject struct {
	calls   []recordedCall
	replies map[string][]interface{}
	errs    map[string]error
}

func newFakeObject() *fakeObject {
	return &fakeObject{
		replies: make(map[string][]interface{}),
		errs:    make(map[string]error),
	}
}

func (f *fakeObject) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, recordedCall{method: method, args: args})
	return &dbus.Call{
		Method: method,
		Args:   args,
		Body:   f.replies[method],
		Err:    f.errs[method],
	}
}

func (f *fakeObject) count(method string) int {
	n := 0
	for _, c := range f.calls {
		if c.method == method {
			n++
		}
	}
	return n
}
