package mapper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPRIdentifierFrom(t *testing.T) {
	require.Equal(t, "akeneo/pim-community-dev/1111", PRIdentifierFrom("akeneo/pim-community-dev", 1111))
}

func TestMessageIdentifierFrom(t *testing.T) {
	require.Equal(t, "C024BE91L@1234567890.001", MessageIdentifierFrom("C024BE91L", "1234567890.001"))
}

func TestPRReferenceFromText(t *testing.T) {
	repo, number, ok := PRReferenceFromText("please review https://github.com/akeneo/pim-community-dev/pull/1111 :pray:")
	require.True(t, ok)
	require.Equal(t, "akeneo/pim-community-dev", repo)
	require.Equal(t, "1111", number)

	_, _, ok = PRReferenceFromText("no link here")
	require.False(t, ok)
}
