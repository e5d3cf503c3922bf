package events

import (
	"testing"

	"whatsapp-notify/internal/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(templates.Default())
	require.NoError(t, err)
	return r
}

func TestNewResolver_ValidatesAgainstCatalog(t *testing.T) {
	r := newTestResolver(t)

	// Every mapping's rule count must match the template's declared count.
	for _, key := range r.EventKeys() {
		resolved, err := r.Resolve(key)
		require.NoError(t, err, "event %s", key)
		assert.Len(t, resolved.Mapping.Args, resolved.Template.ArgCount, "event %s", key)
	}
}

func TestNewResolver_UnknownTemplate(t *testing.T) {
	// A registry missing the mapped templates must fail resolver construction.
	empty, err := templates.NewRegistry()
	require.NoError(t, err)

	_, err = NewResolver(empty)
	require.Error(t, err)

	var unknownTpl *UnknownTemplateError
	assert.ErrorAs(t, err, &unknownTpl)
}

func TestResolve_EveryMemberOfClosedSet(t *testing.T) {
	r := newTestResolver(t)

	keys := r.EventKeys()
	require.NotEmpty(t, keys)

	for _, key := range keys {
		resolved, err := r.Resolve(key)
		assert.NoError(t, err, "event %s", key)
		assert.Equal(t, EventKey(key), resolved.Mapping.EventKey)
	}
}

func TestResolve_InvalidEventKey(t *testing.T) {
	r := newTestResolver(t)

	for _, key := range []string{"", "not_an_event", "WALLET_CREATED", "wallet-created"} {
		_, err := r.Resolve(key)
		require.Error(t, err, "key %q", key)

		var invalid *InvalidEventKeyError
		require.ErrorAs(t, err, &invalid, "key %q", key)
		assert.Equal(t, key, invalid.Key)
		assert.Equal(t, r.EventKeys(), invalid.Valid)
	}
}
