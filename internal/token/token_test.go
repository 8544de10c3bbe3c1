package token

import (
	"testing"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("token-test-secret")

func TestIssueAndParse_RoundTrip(t *testing.T) {
	user := &domain.User{ID: "u-42", Rank: domain.RankSuperAdmin}

	signed, err := Issue(secret, time.Hour, user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	identity, err := Parse(secret, signed)
	require.NoError(t, err)
	assert.Equal(t, "u-42", identity.ID)
	assert.Equal(t, domain.RankSuperAdmin, identity.Rank)
	assert.True(t, identity.IsSuperAdmin())
}

func TestParse_WrongSecret(t *testing.T) {
	signed, err := Issue(secret, time.Hour, &domain.User{ID: "u-42", Rank: domain.RankAdmin})
	require.NoError(t, err)

	_, err = Parse([]byte("some-other-secret"), signed)
	assert.Error(t, err)
}

func TestParse_ExpiredToken(t *testing.T) {
	signed, err := Issue(secret, -time.Minute, &domain.User{ID: "u-42", Rank: domain.RankAdmin})
	require.NoError(t, err)

	_, err = Parse(secret, signed)
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	_, err := Parse(secret, "not.a.token")
	assert.Error(t, err)
}

func TestParse_UnknownRank(t *testing.T) {
	signed, err := Issue(secret, time.Hour, &domain.User{ID: "u-42", Rank: "root"})
	require.NoError(t, err)

	_, err = Parse(secret, signed)
	assert.Error(t, err)
}

func TestParse_MissingSubject(t *testing.T) {
	signed, err := Issue(secret, time.Hour, &domain.User{Rank: domain.RankAdmin})
	require.NoError(t, err)

	_, err = Parse(secret, signed)
	assert.Error(t, err)
}
