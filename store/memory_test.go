package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnet-dev/skillnet-go/domain"
)

func TestMemoryStoreCopiesValues(t *testing.T) {
	st := NewMemoryStore()

	token := &Token{AccessToken: "tok"}
	st.SetToken(token)
	token.AccessToken = "mutated"

	got := st.Token()
	require.NotNil(t, got)
	assert.Equal(t, "tok", got.AccessToken)

	// Mutating the read copy must not leak back either.
	got.AccessToken = "mutated-again"
	assert.Equal(t, "tok", st.Token().AccessToken)
}

func TestMemoryStoreSnapshotLifecycle(t *testing.T) {
	st := NewMemoryStore()
	assert.Nil(t, st.Snapshot())

	st.SetSnapshot(&domain.User{ID: "u1", Name: "Jane"})
	snap := st.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, "Jane", snap.Name)

	st.ClearSnapshot()
	assert.Nil(t, st.Snapshot())
	require.NoError(t, st.Close())
}
