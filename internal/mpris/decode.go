package mpris

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedShape = errors.New("unexpected reply shape")
	ErrKeyNotFound     = errors.New("key not found")
)

// TrackHandle identifies one entry of the player's track list.
type TrackHandle string

// unwrapArray expects variant(array(...)) and returns the array.
func unwrapArray(v Value) (Array, error) {
	variant, ok := v.(Variant)
	if !ok {
		return nil, fmt.Errorf("%w: got %s, want variant", ErrUnexpectedShape, kindOf(v))
	}
	array, ok := variant.Value.(Array)
	if !ok {
		return nil, fmt.Errorf("%w: variant holds %s, want array", ErrUnexpectedShape, kindOf(variant.Value))
	}
	return array, nil
}

// TrackHandles extracts the object paths of a variant(array(object-path...))
// reply, in order. Collection stops at the first element that is not an
// object path; that is not an error.
func TrackHandles(v Value) ([]TrackHandle, error) {
	array, err := unwrapArray(v)
	if err != nil {
		return nil, err
	}

	handles := make([]TrackHandle, 0, len(array))
	for _, element := range array {
		path, ok := element.(ObjectPath)
		if !ok {
			break
		}
		handles = append(handles, TrackHandle(path))
	}
	return handles, nil
}

// LookupString finds key in a variant(array(entry(string, variant(string))...))
// reply and returns the string. The first matching entry wins.
func LookupString(v Value, key string) (string, error) {
	array, err := unwrapArray(v)
	if err != nil {
		return "", err
	}

	for _, element := range array {
		entry, ok := element.(Entry)
		if !ok {
			return "", fmt.Errorf("%w: dictionary holds %s, want dict-entry", ErrUnexpectedShape, kindOf(element))
		}
		entryKey, ok := entry.Key.(String)
		if !ok || string(entryKey) != key {
			continue
		}
		inner, ok := entry.Value.(Variant)
		if !ok {
			return "", fmt.Errorf("%w: %q holds %s, want variant", ErrUnexpectedShape, key, kindOf(entry.Value))
		}
		s, ok := inner.Value.(String)
		if !ok {
			return "", fmt.Errorf("%w: %q holds %s, want string", ErrUnexpectedShape, key, kindOf(inner.Value))
		}
		return string(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrKeyNotFound, key)
}
