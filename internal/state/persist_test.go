package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStorage struct {
	values   map[string]string
	writes   int
	getErr   error
	writeErr error
}

func newMapStorage() *mapStorage {
	return &mapStorage{values: map[string]string{}}
}

func (m *mapStorage) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapStorage) Set(key, value string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.values[key] = value
	return nil
}

func TestPersist_HydratesKeepingTypes(t *testing.T) {
	storage := newMapStorage()
	storage.values["settings"] = `{"theme":"Nord","fontSize":14,"ignored":true}`

	s := New(State{"theme": "Dracula", "fontSize": 12, "ignored": false})
	stop, err := Persist(s, storage, "settings", "theme", "fontSize")
	require.NoError(t, err)
	defer stop()

	size, ok := Get[int](s.GetState(), "fontSize")
	require.True(t, ok, "fontSize should stay an int")
	assert.Equal(t, 14, size)
	assert.Equal(t, "Nord", s.GetState()["theme"])
	assert.Equal(t, false, s.GetState()["ignored"])
}

func TestPersist_WritesOnlyWhenPersistedFieldsChange(t *testing.T) {
	storage := newMapStorage()
	s := New(State{"theme": "Dracula", "draft": ""})

	stop, err := Persist(s, storage, "settings", "theme")
	require.NoError(t, err)

	s.Set(State{"draft": "hello"})
	assert.Equal(t, 0, storage.writes)

	s.Set(State{"theme": "Nord"})
	assert.Equal(t, 1, storage.writes)
	assert.JSONEq(t, `{"theme":"Nord"}`, storage.values["settings"])

	stop()
	s.Set(State{"theme": "Slate"})
	assert.Equal(t, 1, storage.writes)
}

func TestPersist_CorruptDocumentKeepsDefaults(t *testing.T) {
	storage := newMapStorage()
	storage.values["settings"] = "{not json"

	s := New(State{"theme": "Dracula"})
	stop, err := Persist(s, storage, "settings", "theme")
	require.NoError(t, err)
	defer stop()

	assert.Equal(t, "Dracula", s.GetState()["theme"])
}

func TestPersist_ReadErrorIsReturned(t *testing.T) {
	storage := newMapStorage()
	storage.getErr = errors.New("disk gone")

	s := New(State{"theme": "Dracula"})
	_, err := Persist(s, storage, "settings", "theme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.Equal(t, 0, s.Listeners())
}

func TestPersist_WriteErrorDoesNotBreakSetState(t *testing.T) {
	storage := newMapStorage()
	storage.writeErr = errors.New("read-only")

	s := New(State{"theme": "Dracula"})
	stop, err := Persist(s, storage, "settings", "theme")
	require.NoError(t, err)
	defer stop()

	require.NotPanics(t, func() { s.Set(State{"theme": "Nord"}) })
	assert.Equal(t, "Nord", s.GetState()["theme"])
}
