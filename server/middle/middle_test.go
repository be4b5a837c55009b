package middle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/grammarq/server/dao"
	"github.com/dekarrin/grammarq/server/dao/inmem"
	"github.com/dekarrin/grammarq/server/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// echoUser responds with the username in the request context and whether they
// are logged in.
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
	user := req.Context().Value(AuthUser).(dao.User)
	loggedIn := req.Context().Value(AuthLoggedIn).(bool)
	if loggedIn {
		w.Write([]byte("in:" + user.Username))
	} else {
		w.Write([]byte("out:" + user.Username))
	}
})

func Test_Auth(t *testing.T) {
	users := inmem.NewUsersRepository()
	ana, err := users.Create(context.Background(), dao.User{Username: "ana", Password: "hash"})
	require.NoError(t, err)
	tok, err := token.Generate(testSecret, ana)
	require.NoError(t, err)

	testCases := []struct {
		name         string
		mw           Middleware
		auth         string
		expectStatus int
		expectBody   string
	}{
		{
			name:         "required, valid token",
			mw:           RequireAuth(users, testSecret, 0),
			auth:         "Bearer " + tok,
			expectStatus: http.StatusOK,
			expectBody:   "in:ana",
		},
		{
			name:         "required, no token",
			mw:           RequireAuth(users, testSecret, 0),
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "required, bad token",
			mw:           RequireAuth(users, testSecret, 0),
			auth:         "Bearer nope",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "optional, valid token",
			mw:           OptionalAuth(users, testSecret, 0, dao.User{Username: "guest"}),
			auth:         "Bearer " + tok,
			expectStatus: http.StatusOK,
			expectBody:   "in:ana",
		},
		{
			name:         "optional, no token",
			mw:           OptionalAuth(users, testSecret, 0, dao.User{Username: "guest"}),
			expectStatus: http.StatusOK,
			expectBody:   "out:guest",
		},
		{
			name:         "optional, bad token",
			mw:           OptionalAuth(users, testSecret, 0, dao.User{Username: "guest"}),
			auth:         "Bearer nope",
			expectStatus: http.StatusOK,
			expectBody:   "out:guest",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			req := httptest.NewRequest("GET", "/", nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			w := httptest.NewRecorder()

			tc.mw(echoUser).ServeHTTP(w, req)

			assert.Equal(tc.expectStatus, w.Code)
			if tc.expectBody != "" {
				assert.Equal(tc.expectBody, w.Body.String())
			}
		})
	}
}
