package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	t.Run("creates a run-scoped directory", func(t *testing.T) {
		base := t.TempDir()
		runID := uuid.New()

		store, err := NewLocalStore(base, runID)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(base, runID.String()[:8]), store.Dir())
		info, err := os.Stat(store.Dir())
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("writes artifacts into the run directory", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir(), uuid.New())
		require.NoError(t, err)

		w, err := store.Create("overtime.csv")
		require.NoError(t, err)
		_, err = w.Write([]byte("Month,Overtime\n"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		data, err := os.ReadFile(store.Path("overtime.csv"))
		require.NoError(t, err)
		assert.Equal(t, "Month,Overtime\n", string(data))
	})

	t.Run("two runs never share a directory", func(t *testing.T) {
		base := t.TempDir()
		a, err := NewLocalStore(base, uuid.New())
		require.NoError(t, err)
		b, err := NewLocalStore(base, uuid.New())
		require.NoError(t, err)
		assert.NotEqual(t, a.Dir(), b.Dir())
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "report.xlsx", "report.xlsx"},
		{"path separators", "a/b\\c.csv", "a_b_c.csv"},
		{"vessel name with spaces", "MV Stellar Wind.xlsx", "MV_Stellar_Wind.xlsx"},
		{"traversal and specials", "..:*?\"<>|", "_______" + "_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
