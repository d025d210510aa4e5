package certlevel_test

import (
	"context"
	"testing"

	"github.com/saulo-duarte/learnpath/internal/certlevel"
	"github.com/saulo-duarte/learnpath/internal/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighestNumberQuery(t *testing.T) {
	db, rec := dbtest.DryRun(t)
	repo := certlevel.NewRepository(db)

	t.Run("EscapesWildcardsInPrefix", func(t *testing.T) {
		rec.Reset()
		_, err := repo.HighestNumber(context.Background(), "C_T%-2025-")
		require.NoError(t, err)

		sql := rec.Last()
		assert.Contains(t, sql, `certificate_number LIKE 'C\_T\%-2025-%' ESCAPE '\'`)
		assert.Contains(t, sql, "ORDER BY length(certificate_number) DESC, certificate_number DESC")
		assert.Contains(t, sql, "LIMIT 1")
	})

	t.Run("PlainPrefix", func(t *testing.T) {
		rec.Reset()
		_, err := repo.HighestNumber(context.Background(), "CERT-2025-")
		require.NoError(t, err)
		assert.Contains(t, rec.Last(), `LIKE 'CERT-2025-%'`)
	})
}
