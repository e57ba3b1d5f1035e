package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "001", MigrationVersion("001_create_courses.sql"))
	assert.Equal(t, "002", MigrationVersion("/srv/migrations/002_sync_course_id_sequence.sql"))
	assert.Equal(t, "003.sql", MigrationVersion("003.sql"))
}

func TestPendingFiles_SortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md", "010_c.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000_dir.sql"), 0o700))

	files, err := PendingFiles(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "001_a.sql"),
		filepath.Join(dir, "002_b.sql"),
		filepath.Join(dir, "010_c.sql"),
	}, files)
}

func TestPendingFiles_MissingDir(t *testing.T) {
	_, err := PendingFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
