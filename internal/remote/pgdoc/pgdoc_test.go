package pgdoc

import (
	"testing"

	"github.com/khianvictorycalderon/profilesync/internal/remote/pgdoc/migrations"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrations.Migrations.ReadDir(".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	data, err := migrations.Migrations.ReadFile("0001_create_documents.sql")
	require.NoError(t, err)
	require.Contains(t, string(data), "CREATE TABLE documents")
}
