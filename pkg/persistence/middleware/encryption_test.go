package middleware_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/persistence/middleware"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func secretLayout(t *testing.T) *domain.Layout {
	t.Helper()
	l := domain.NewLayout()
	require.NoError(t, l.AddRootWidget("form", domain.NewWidgetConfig("container.card")))
	require.NoError(t, l.AddChildWidget("form", "pw", domain.NewWidgetConfig("form.textinput").
		WithProperty("label", "Password").
		WithProperty("placeholder", "hunter2")))
	return l
}

func TestEncryptionMiddleware_RoundTrip(t *testing.T) {
	underlying := newMockStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(0x11),
	})
	secure := mw(underlying)

	ctx := context.Background()
	require.NoError(t, secure.Save(ctx, "page", secretLayout(t)))

	// The underlying store sees only the envelope.
	stored, err := underlying.Load(ctx, "page")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.WidgetCount(), "widget tree must not reach the store in the clear")
	blob, ok := stored.MetadataValue("__encrypted__")
	require.True(t, ok, "envelope must carry the ciphertext")
	assert.NotContains(t, blob.(string), "hunter2")

	// Loading through the middleware restores the real document.
	loaded, err := secure.Load(ctx, "page")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.WidgetCount())
	pw, ok := loaded.Widget("pw")
	require.True(t, ok)
	assert.Equal(t, "hunter2", pw.Config.StringProperty("placeholder", ""))
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := newMockStore()
	ctx := context.Background()

	oldKey := testKey(0x22)
	newKey := testKey(0x33)

	// Write with the old key.
	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: oldKey,
	})(underlying)
	require.NoError(t, oldStore.Save(ctx, "page", secretLayout(t)))

	// Read after rotating: new active key, old key in fallbacks.
	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := rotated.Load(ctx, "page")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.WidgetCount())

	// Without the fallback, decryption must fail.
	strict := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: newKey,
	})(underlying)
	_, err = strict.Load(ctx, "page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt")
}

func TestEncryptionMiddleware_RejectsPlainDocuments(t *testing.T) {
	underlying := newMockStore()
	ctx := context.Background()

	// A document saved without encryption must not load through the
	// encrypting store.
	require.NoError(t, underlying.Save(ctx, "plain", secretLayout(t)))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(0x44),
	})(underlying)

	_, err := secure.Load(ctx, "plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "envelope")
}

func TestEncryptionMiddleware_InvalidKeySizePanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: []byte("short"),
		})
	})
}

func TestEncryptionMiddleware_PassThroughOps(t *testing.T) {
	underlying := newMockStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(0x55),
	})(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, "a", secretLayout(t)))
	require.NoError(t, secure.Save(ctx, "b", secretLayout(t)))

	keys, err := secure.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	require.NoError(t, secure.Delete(ctx, "a"))
	_, err = secure.Load(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
}
