package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/adapters/file"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Ensure Store implements LayoutStore
var _ ports.LayoutStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunLayoutStoreContract(t, store)
}

func TestFileStore_DefaultBasePath(t *testing.T) {
	store := file.New("")
	assert.Equal(t, filepath.Join(".lattice", "layouts"), store.BasePath)
}

func TestFileStore_EmptyKeyRejected(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", domain.NewLayout()))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, ""))
}

func TestFileStore_FilesAreHumanReadable(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	layout := domain.NewLayout()
	require.NoError(t, layout.AddRootWidget("hero", domain.NewWidgetConfig("container.row")))
	require.NoError(t, store.Save(ctx, "page", layout))

	data, err := os.ReadFile(filepath.Join(dir, "page.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"version\"", "layout files should be indented for diffs")
}

func TestFileStore_CorruptedFileRejected(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))

	_, err := store.Load(ctx, "broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDeserialization)
}

func TestFileStore_InvalidDocumentRejected(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	// Structurally invalid: root id with no node backing it.
	payload := `{"version":"1.0","root_nodes":["a"],"nodes":{},"metadata":{}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dangling.json"), []byte(payload), 0644))

	_, err := store.Load(ctx, "dangling")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidLayout)
}

func TestFileStore_ListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "one", domain.NewLayout()))
	require.NoError(t, store.Save(ctx, "two", domain.NewLayout()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, keys)
}
