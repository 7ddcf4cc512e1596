package state

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Storage is the key/value persistence surface Persist writes through.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Persist loads fields from storage under key into store and then saves them
// back whenever a transition changes one of them. Values are stored as one
// JSON object. A corrupt stored document is logged and ignored. Write errors
// are logged and never reach the caller of SetState.
func Persist(store *Store, storage Storage, key string, fields ...string) (stop func(), err error) {
	if err := hydrate(store, storage, key, fields); err != nil {
		return func() {}, err
	}

	unsubscribe := store.Subscribe(func(next, prev State) {
		if !fieldsChanged(next, prev, fields) {
			return
		}
		if err := save(storage, key, next, fields); err != nil {
			store.log().Error("persist state failed", "store", store.name, "key", key, "error", err)
		}
	})
	return unsubscribe, nil
}

func hydrate(store *Store, storage Storage, key string, fields []string) error {
	raw, ok, err := storage.Get(key)
	if err != nil {
		return fmt.Errorf("read %q: %w", key, err)
	}
	if !ok || raw == "" {
		return nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		store.log().Warn("ignoring corrupt persisted state", "store", store.name, "key", key, "error", err)
		return nil
	}

	current := store.GetState()
	loaded := State{}
	for _, field := range fields {
		msg, ok := doc[field]
		if !ok {
			continue
		}
		value, err := decodeLike(current[field], msg)
		if err != nil {
			store.log().Warn("ignoring persisted field", "store", store.name, "key", key, "field", field, "error", err)
			continue
		}
		loaded[field] = value
	}
	if len(loaded) > 0 {
		store.Set(loaded)
	}
	return nil
}

// decodeLike decodes msg into the dynamic type of like so an int field stays
// an int after a round trip through JSON.
func decodeLike(like any, msg json.RawMessage) (any, error) {
	if like == nil {
		var v any
		err := json.Unmarshal(msg, &v)
		return v, err
	}
	ptr := reflect.New(reflect.TypeOf(like))
	if err := json.Unmarshal(msg, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

func save(storage Storage, key string, s State, fields []string) error {
	subset := make(map[string]any, len(fields))
	for _, field := range fields {
		if v, ok := s[field]; ok {
			subset[field] = v
		}
	}
	data, err := json.Marshal(subset)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if err := storage.Set(key, string(data)); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func fieldsChanged(next, prev State, fields []string) bool {
	for _, field := range fields {
		if !identical(next[field], prev[field]) {
			return true
		}
	}
	return false
}
