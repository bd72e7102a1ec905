package migrate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFiles_EmbedsGooseMigrations(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	require.Equal(t, "00001_match_results.sql", files[0])

	b, err := migrations.ReadFile(migrationsDir + "/" + files[0])
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), "-- +goose Up"))
	require.True(t, strings.Contains(string(b), "-- +goose Down"))
}
