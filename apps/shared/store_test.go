package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Renato2024Valente/Buscativa2026/core"
	inmemdb "github.com/Renato2024Valente/Buscativa2026/storage/database/inmem"
	sqlxrepos "github.com/Renato2024Valente/Buscativa2026/storage/database/sqlx"
)

func TestOpenStorage(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, err := OpenStorage(&core.Config{Database: core.DatabaseConfig{Engine: core.EngineMemory}})
		require.NoError(t, err)
		assert.IsType(t, &inmemdb.DB{}, s.Store)
		assert.Nil(t, s.DB)
		assert.NoError(t, s.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := OpenStorage(&core.Config{Database: core.DatabaseConfig{URL: "file::memory:"}})
		require.NoError(t, err)
		defer s.Close()
		assert.Equal(t, core.EngineSQLite, s.Engine)
		assert.IsType(t, &sqlxrepos.Store{}, s.Store)

		classes, err := s.Store.QueryClasses(context.Background())
		require.NoError(t, err)
		assert.Empty(t, classes)
	})

	t.Run("unsupported url", func(t *testing.T) {
		_, err := OpenStorage(&core.Config{Database: core.DatabaseConfig{URL: "mysql://localhost/db"}})
		assert.Error(t, err)
	})
}
