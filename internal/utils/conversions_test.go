package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-flight-admin/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestClaimStrings(t *testing.T) {
	in := []any{
		"ROLE_USER",
		map[string]any{"authority": "ROLE_ADMIN"},
		map[string]any{"name": "ignored"},
		42,
	}
	require.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, utils.ClaimStrings(in, "authority"))
	require.Empty(t, utils.ClaimStrings(nil, "authority"))
}
