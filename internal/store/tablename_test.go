package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/invite-tracker/internal/models"
)

func TestValidateTableName(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"identifiers", "user_data_2", "a"} {
		require.NoError(t, ValidateTableName(ok), ok)
	}
	for _, bad := range []string{"", " ", "Users", "1abc", "ids; DROP TABLE bots", "ids-a", `"ids"`, "public.ids"} {
		require.Error(t, ValidateTableName(bad), bad)
	}
}

func TestValidatePrefix(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidatePrefix("ABCD"))
	require.NoError(t, ValidatePrefix("A1B2"))
	for _, bad := range []string{"", "ABC", "ABCDE", "abcd", "AB-D"} {
		require.Error(t, ValidatePrefix(bad), bad)
	}
}

func TestValidateBot(t *testing.T) {
	t.Parallel()

	good := models.Bot{Token: "t", ChatID: "-100", IdentifiersTable: "ids", AttributionTable: "clicks", Prefix: "ABCD"}
	require.NoError(t, validateBot(good))

	noToken := good
	noToken.Token = ""
	require.ErrorIs(t, validateBot(noToken), models.ErrStore)

	badTable := good
	badTable.AttributionTable = "clicks;--"
	require.ErrorIs(t, validateBot(badTable), models.ErrStore)

	badPrefix := good
	badPrefix.Prefix = "abcd"
	require.ErrorIs(t, validateBot(badPrefix), models.ErrStore)
}
