package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/persistence/middleware"
)

func TestRedactionMiddleware_Masking(t *testing.T) {
	underlying := newMockStore()
	// Mask keys containing "password" or "ssn"
	mw := middleware.NewRedactionMiddleware([]string{"password", "ssn"})
	secure := mw(underlying)

	ctx := context.Background()

	layout := domain.NewLayout()
	require.NoError(t, layout.AddRootWidget("signup", domain.NewWidgetConfig("container.card")))
	require.NoError(t, layout.AddChildWidget("signup", "field", domain.NewWidgetConfig("form.textinput").
		WithProperty("label", "Password").
		WithProperty("default_password", "secret123").
		WithProperty("details", map[string]any{
			"hint":       "use something strong",
			"ssn_backup": "999-99-9999",
		})))
	layout.SetMetadata("owner", "jdoe")
	layout.SetMetadata("admin_password", "root")

	require.NoError(t, secure.Save(ctx, "page", layout))

	// The in-memory document keeps its real values.
	field, ok := layout.Widget("field")
	require.True(t, ok)
	assert.Equal(t, "secret123", field.Config.StringProperty("default_password", ""),
		"middleware must not modify the document being saved")

	// The stored copy is masked.
	stored, err := underlying.Load(ctx, "page")
	require.NoError(t, err)

	storedField, ok := stored.Widget("field")
	require.True(t, ok)
	assert.Equal(t, "Password", storedField.Config.StringProperty("label", ""),
		"non-matching keys stay intact")
	assert.Equal(t, "***", storedField.Config.StringProperty("default_password", ""))

	details, ok := storedField.Config.Property("details")
	require.True(t, ok)
	detailsMap := details.(map[string]any)
	assert.Equal(t, "use something strong", detailsMap["hint"])
	assert.Equal(t, "***", detailsMap["ssn_backup"], "nested keys are masked too")

	owner, _ := stored.MetadataValue("owner")
	assert.Equal(t, "jdoe", owner)
	adminPw, _ := stored.MetadataValue("admin_password")
	assert.Equal(t, "***", adminPw, "document metadata is masked")
}

func TestRedactionMiddleware_LoadPassesThrough(t *testing.T) {
	underlying := newMockStore()
	secure := middleware.NewRedactionMiddleware([]string{"password"})(underlying)
	ctx := context.Background()

	layout := domain.NewLayout()
	require.NoError(t, layout.AddRootWidget("a", domain.NewWidgetConfig("text")))
	require.NoError(t, underlying.Save(ctx, "page", layout))

	loaded, err := secure.Load(ctx, "page")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.WidgetCount())
}

func TestChain_OrderIsOutsideIn(t *testing.T) {
	underlying := newMockStore()
	ctx := context.Background()

	// Redaction must run before encryption: the envelope hides everything,
	// so masking after encrypting would be a no-op.
	stacked := middleware.Chain(
		middleware.NewRedactionMiddleware([]string{"password"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: testKey(0x66),
		}),
	)(underlying)

	layout := domain.NewLayout()
	require.NoError(t, layout.AddRootWidget("field", domain.NewWidgetConfig("form.textinput").
		WithProperty("password_default", "secret123")))

	require.NoError(t, stacked.Save(ctx, "page", layout))

	loaded, err := stacked.Load(ctx, "page")
	require.NoError(t, err)
	field, ok := loaded.Widget("field")
	require.True(t, ok)
	assert.Equal(t, "***", field.Config.StringProperty("password_default", ""),
		"value must be masked inside the encrypted envelope")
}
