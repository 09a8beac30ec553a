package filestore

import (
	"context"
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/battlesnakeio/arcade/highscore"
	"github.com/battlesnakeio/arcade/highscore/testsuite"
	"github.com/stretchr/testify/require"
)

func testDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "arcade-filestore")
	require.NoError(t, err)
	return dir
}

func TestFileStore(t *testing.T) {
	var dirs []string
	defer func() {
		for _, d := range dirs {
			os.RemoveAll(d)
		}
	}()

	testsuite.Suite(t, func() highscore.Store {
		dir := testDir(t)
		dirs = append(dirs, dir)
		return NewFileStore(dir)
	})
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := testDir(t)
	defer os.RemoveAll(dir)

	err := NewFileStore(dir).Put(context.Background(), 70)
	require.NoError(t, err)

	score, err := NewFileStore(dir).Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 70, score)

	data, err := ioutil.ReadFile(path.Join(dir, fileName))
	require.NoError(t, err)
	require.JSONEq(t, `{"snakeHighScore": 70}`, string(data))
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := testDir(t)
	defer os.RemoveAll(dir)

	fs := NewFileStore(path.Join(dir, "nested", "deeper"))
	require.NoError(t, fs.Put(context.Background(), 10))

	score, err := fs.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, score)
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := testDir(t)
	defer os.RemoveAll(dir)
	require.NoError(t, ioutil.WriteFile(path.Join(dir, fileName), []byte("not json"), 0644))

	fs := NewFileStore(dir)
	_, err := fs.Get(context.Background())
	require.Error(t, err)

	require.NoError(t, fs.Put(context.Background(), 20))
	score, err := fs.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 20, score)
}

func TestDefaultDir(t *testing.T) {
	fs := NewFileStore("").(*fileStore)
	require.Equal(t, defaultDir(), fs.directory)
}
