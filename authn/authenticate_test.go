package authn_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sjoshi-TYCS/witsml/authn"
	"github.com/Sjoshi-TYCS/witsml/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	a, err := authn.NewAuth(logger.NewLogfLogger(t), "DEADBEEFDEADBEEF", map[string]string{"driller": "s3cret"})
	require.NoError(t, err)

	t.Run("Anonymous", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/GetFromStore", nil)
		user, err := a.Authenticate(r)
		require.NoError(t, err)
		assert.Equal(t, authn.Anonymous, user)
	})

	t.Run("Bearer", func(t *testing.T) {
		token, err := a.NewToken(authn.User{Name: "alice", Groups: []string{"readers"}}, time.Minute)
		require.NoError(t, err)

		r := httptest.NewRequest("POST", "/api/GetFromStore", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		user, err := a.Authenticate(r)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Name)
		assert.Equal(t, []string{"readers"}, user.Groups)
	})

	t.Run("ExpiredOrForeignToken", func(t *testing.T) {
		expired, err := a.NewToken(authn.User{Name: "alice"}, -time.Minute)
		require.NoError(t, err)
		other, err := authn.NewAuth(logger.NopLogger, "another-secret", nil)
		require.NoError(t, err)
		foreign, err := other.NewToken(authn.User{Name: "alice"}, time.Minute)
		require.NoError(t, err)

		for _, token := range []string{expired, foreign, "not-a-jwt"} {
			r := httptest.NewRequest("POST", "/", nil)
			r.Header.Set("Authorization", "Bearer "+token)
			_, err := a.Authenticate(r)
			assert.Error(t, err)
		}
	})

	t.Run("Basic", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		r.SetBasicAuth("driller", "s3cret")
		user, err := a.Authenticate(r)
		require.NoError(t, err)
		assert.Equal(t, "driller", user.Name)

		r.SetBasicAuth("driller", "wrong")
		_, err = a.Authenticate(r)
		assert.Error(t, err)
	})

	_, err = authn.NewAuth(logger.NopLogger, "", nil)
	assert.Error(t, err)
}
