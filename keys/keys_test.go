package keys

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrGenerateGeneratesWhenMissing(t *testing.T) {
	dir := t.TempDir()
	clientPath := filepath.Join(dir, "client")
	serverPath := filepath.Join(dir, "server")

	ck, sk, err := LoadOrGenerate(clientPath, serverPath)
	require.NoError(t, err)
	require.Equal(t, ck.Params, sk.Params)

	require.FileExists(t, filepath.Join(dir, "client.key"))
	require.FileExists(t, filepath.Join(dir, "server.key"))
}

func TestLoadOrGenerateLoadsExisting(t *testing.T) {
	dir := t.TempDir()
	clientPath := filepath.Join(dir, "client")
	serverPath := filepath.Join(dir, "server")

	wantCk, wantSk, err := LoadOrGenerate(clientPath, serverPath)
	require.NoError(t, err)

	gotCk, gotSk, err := LoadOrGenerate(clientPath, serverPath)
	require.NoError(t, err)

	require.Equal(t, wantCk, gotCk)
	require.Equal(t, wantSk, gotSk)
}

func TestWithKeyExtension(t *testing.T) {
	require.Equal(t, "foo.key", withKeyExtension("foo"))
	require.Equal(t, "foo.key", withKeyExtension("foo.txt"))
	require.Equal(t, filepath.Join("a", "b.key"), withKeyExtension(filepath.Join("a", "b")))
}
