package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_DuplicateID(t *testing.T) {
	_, err := NewRegistry(
		Definition{ID: "a", ArgCount: 0, ArgDescriptions: []string{}, SampleArgs: []string{}},
		Definition{ID: "a", ArgCount: 0, ArgDescriptions: []string{}, SampleArgs: []string{}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate template id")
}

func TestNewRegistry_ArgCountMismatch(t *testing.T) {
	_, err := NewRegistry(Definition{
		ID:              "bad",
		ArgCount:        2,
		ArgDescriptions: []string{"only one"},
		SampleArgs:      []string{"a", "b"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argDescriptions")

	_, err = NewRegistry(Definition{
		ID:              "bad",
		ArgCount:        2,
		ArgDescriptions: []string{"a", "b"},
		SampleArgs:      []string{"only one"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampleArgs")
}

func TestNewRegistry_EmptyID(t *testing.T) {
	_, err := NewRegistry(Definition{ArgCount: 0, ArgDescriptions: []string{}, SampleArgs: []string{}})
	require.Error(t, err)
}

func TestRegistry_LookupAndOrder(t *testing.T) {
	reg, err := NewRegistry(
		Definition{ID: "first", ArgCount: 1, ArgDescriptions: []string{"x"}, SampleArgs: []string{"1"}},
		Definition{ID: "second", ArgCount: 0, ArgDescriptions: []string{}, SampleArgs: []string{}},
	)
	require.NoError(t, err)

	def, ok := reg.Lookup("first")
	assert.True(t, ok)
	assert.Equal(t, "first", def.ID)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"first", "second"}, reg.IDs())

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].ID)
	assert.Equal(t, "second", list[1].ID)
}

// The production catalog must satisfy its own invariants: every template's
// metadata lengths agree with its declared argument count.
func TestDefaultCatalog_Invariants(t *testing.T) {
	reg := Default()
	require.NotZero(t, reg.Len())

	for _, def := range reg.List() {
		assert.Len(t, def.ArgDescriptions, def.ArgCount, "template %s", def.ID)
		assert.Len(t, def.SampleArgs, def.ArgCount, "template %s", def.ID)
		assert.NotEmpty(t, def.Name, "template %s", def.ID)
		assert.NotEmpty(t, def.Body, "template %s", def.ID)
	}
}

func TestDefaultCatalog_KnownTemplates(t *testing.T) {
	reg := Default()
	for _, id := range []string{"wallet_created", "topup_success", "visitor_checkin", "parcel_arrived", "payment_reminder", "announcement_alert"} {
		_, ok := reg.Lookup(id)
		assert.True(t, ok, "expected template %s in catalog", id)
	}
}
