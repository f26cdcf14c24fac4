package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cron-editor/internal/domain"
)

func TestFileRepository_SaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "values.json")
	repo, err := NewFileRepository(path)
	require.NoError(t, err)

	value, err := repo.Load("backup")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, repo.Save("backup", "0 3 * * *"))
	require.NoError(t, repo.Save("report", "*/15 * * * 1-5"))

	reopened, err := NewFileRepository(path)
	require.NoError(t, err)
	value, err = reopened.Load("backup")
	require.NoError(t, err)
	assert.Equal(t, "0 3 * * *", value)

	keys, err := reopened.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"backup", "report"}, keys)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileRepository_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewFileRepository("")
	assert.EqualError(t, err, "path is required")

	path := filepath.Join(t.TempDir(), "values.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	repo, err := NewFileRepository(path)
	require.NoError(t, err)

	_, err = repo.Load("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal store")

	assert.ErrorIs(t, repo.Save("", "* * * * *"), domain.ErrEmptyKey)
}

func TestMemoryRepository(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository()
	require.NoError(t, repo.Save("a", "1 2 3 4 5"))
	value, err := repo.Load("a")
	require.NoError(t, err)
	assert.Equal(t, "1 2 3 4 5", value)
	assert.ErrorIs(t, repo.Save("", "x"), domain.ErrEmptyKey)
}
