package token

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dekarrin/grammarq/server/dao"
	"github.com/dekarrin/grammarq/server/dao/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func Test_Get(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		expect    string
		expectErr bool
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", expect: "abc.def.ghi"},
		{name: "scheme is case insensitive", header: "bearer  tok ", expect: "tok"},
		{name: "missing header", header: "", expectErr: true},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", expectErr: true},
		{name: "no token", header: "Bearer", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			actual, err := Get(req)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_GenerateValidate(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	users := inmem.NewUsersRepository()
	user, err := users.Create(ctx, dao.User{Username: "ana", Password: "hash"})
	require.NoError(t, err)

	tok, err := Generate(testSecret, user)
	require.NoError(t, err)

	validated, err := Validate(ctx, tok, testSecret, users)
	assert.NoError(err)
	assert.Equal(user.ID, validated.ID)

	// wrong secret
	_, err = Validate(ctx, tok, []byte("some other secret entirely, 32b+"), users)
	assert.Error(err)

	// logging out invalidates existing tokens
	user.LastLogoutTime = time.Now().Add(time.Hour)
	_, err = users.Update(ctx, user.ID, user)
	require.NoError(t, err)
	_, err = Validate(ctx, tok, testSecret, users)
	assert.Error(err)
}

func Test_Validate_UnknownUser(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	users := inmem.NewUsersRepository()
	tok, err := Generate(testSecret, dao.User{Username: "ghost"})
	require.NoError(t, err)

	_, err = Validate(ctx, tok, testSecret, users)
	assert.Error(err)
}

func Test_Validate_Garbage(t *testing.T) {
	assert := assert.New(t)

	_, err := Validate(context.Background(), "not-a-token", testSecret, inmem.NewUsersRepository())
	assert.Error(err)
}
