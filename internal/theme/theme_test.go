package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nibzard/clientdesk/internal/storage"
)

func TestParse(t *testing.T) {
	for in, want := range map[string]Mode{"light": Light, " DARK ": Dark, "auto": Auto} {
		got, err := Parse(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := Parse("sepia")
	require.Error(t, err)
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	m, err := Load(ctx, kv, Default)
	require.NoError(t, err)
	require.Equal(t, Auto, m)

	require.NoError(t, Save(ctx, kv, Dark))
	raw, _, err := kv.Get(ctx, storage.KeyTheme)
	require.NoError(t, err)
	require.Equal(t, "dark", string(raw))

	m, err = Load(ctx, kv, Default)
	require.NoError(t, err)
	require.Equal(t, Dark, m)

	require.Error(t, Save(ctx, kv, "neon"))
}

func TestLoadUnknownStoredValue(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, storage.KeyTheme, []byte("purple")))

	m, err := Load(ctx, kv, Light)
	require.NoError(t, err)
	require.Equal(t, Light, m)
}

func TestResolve(t *testing.T) {
	dark := func() bool { return true }
	light := func() bool { return false }

	require.Equal(t, Dark, Resolve(Auto, dark))
	require.Equal(t, Light, Resolve(Auto, light))
	require.Equal(t, Light, Resolve(Auto, nil))
	require.Equal(t, Light, Resolve(Light, dark))
	require.Equal(t, Dark, Resolve(Dark, light))
}
