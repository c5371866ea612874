package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msgstg/backend/internal/storage"
)

func TestCreateLeafAndChild(t *testing.T) {
	root := NewContainer()

	require.NoError(t, root.CreateLeaf("leaf", []byte{1, 2, 3}))

	child, err := root.CreateChildContainer("child")
	require.NoError(t, err)
	require.NotNil(t, child)

	data, ok := root.Leaf("leaf")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, []string{"child"}, root.ChildNames())
	assert.Equal(t, []string{"leaf"}, root.LeafNames())
}

func TestNameCollisions(t *testing.T) {
	root := NewContainer()
	require.NoError(t, root.CreateLeaf("node", nil))

	err := root.CreateLeaf("node", []byte("x"))
	assert.ErrorIs(t, err, storage.ErrNodeExists)

	_, err = root.CreateChildContainer("node")
	assert.ErrorIs(t, err, storage.ErrNodeExists)

	// 子容器与叶子共用命名空间
	_, err = root.CreateChildContainer("dir")
	require.NoError(t, err)
	assert.ErrorIs(t, root.CreateLeaf("dir", nil), storage.ErrNodeExists)
}

func TestLeafStoresCopy(t *testing.T) {
	root := NewContainer()
	buf := []byte{1, 2, 3}
	require.NoError(t, root.CreateLeaf("leaf", buf))

	buf[0] = 0xFF
	data, ok := root.Leaf("leaf")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, data, "leaf must hold an exact copy of the input")
}

func TestDumpToDir(t *testing.T) {
	root := NewContainer()
	require.NoError(t, root.CreateLeaf("top.bin", []byte("top")))

	child, err := root.CreateChildContainer("nested")
	require.NoError(t, err)
	require.NoError(t, child.CreateLeaf("inner.bin", []byte("inner")))

	dir := t.TempDir()
	require.NoError(t, root.DumpToDir(dir))

	top, err := os.ReadFile(filepath.Join(dir, "top.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte("top"), top)

	inner, err := os.ReadFile(filepath.Join(dir, "nested", "inner.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte("inner"), inner)
}
