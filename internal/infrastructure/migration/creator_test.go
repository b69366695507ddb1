package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"add batches table", "add_batches_table"},
		{"Add-Batches-Table", "add_batches_table"},
		{"ADD__BATCHES__TABLE", "add_batches_table"},
		{"add batch ledger v2", "add_batch_ledger_v2"},
		{"  padded  ", "padded"},
		{"weird!@#chars", "weird_chars"},
		{"_leading_and_trailing_", "leading_and_trailing"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, slugify(tc.in), "input %q", tc.in)
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("writes a matching up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add batches table", "Create the batch ledger table")

		require.NoError(t, err)
		assert.Len(t, mf.Version, 14)
		assert.Equal(t,
			strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql"),
			strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql"),
		)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add batches table")
		assert.Contains(t, string(up), "Create the batch ledger table")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "rollback")
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "db", "migrations")

		mf, err := CreateMigration(dir, "seed products", "")

		require.NoError(t, err)
		info, statErr := os.Stat(dir)
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
		assert.FileExists(t, mf.UpPath)
	})
}

func TestListMigrations(t *testing.T) {
	writeFiles := func(t *testing.T, dir string, names ...string) {
		t.Helper()
		for _, n := range names {
			require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("-- stub"), 0644))
		}
	}

	t.Run("returns up migrations sorted by version", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"000002_add_batches.up.sql", "000002_add_batches.down.sql",
			"000001_init_schema.up.sql", "000001_init_schema.down.sql",
			"000003_add_orders.up.sql", "000003_add_orders.down.sql",
		)

		got, err := ListMigrations(dir)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"000001_init_schema",
			"000002_add_batches",
			"000003_add_orders",
		}, got)
	})

	t.Run("skips unrelated files and directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "000001_init.up.sql", "000001_init.down.sql", "README.md", ".gitkeep")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0755))

		got, err := ListMigrations(dir)

		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init"}, got)
	})

	t.Run("missing directory is an empty list", func(t *testing.T) {
		got, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
