package result

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Result_WriteResponse(t *testing.T) {
	testCases := []struct {
		name         string
		r            Result
		expectStatus int
		expectBody   string
		expectHdrs   map[string]string
	}{
		{
			name:         "ok with object",
			r:            OK(map[string]int{"a": 1}),
			expectStatus: http.StatusOK,
			expectBody:   `{"a":1}`,
			expectHdrs:   map[string]string{"Content-Type": "application/json"},
		},
		{
			name:         "no content",
			r:            NoContent("deleted %d", 3),
			expectStatus: http.StatusNoContent,
			expectBody:   "",
		},
		{
			name:         "not found",
			r:            NotFound(),
			expectStatus: http.StatusNotFound,
			expectBody:   `{"error":"The requested resource was not found","status":404}`,
		},
		{
			name:         "unauthorized sets auth header",
			r:            Unauthorized(""),
			expectStatus: http.StatusUnauthorized,
			expectBody:   `{"error":"You are not authorized to do that","status":401}`,
			expectHdrs:   map[string]string{"WWW-Authenticate": `Bearer realm="grammarq server", charset="utf-8"`},
		},
		{
			name:         "unprocessable with details",
			r:            UnprocessableEntity("bad grammar", []string{"line 1", "^"}),
			expectStatus: http.StatusUnprocessableEntity,
			expectBody:   `{"error":"bad grammar","status":422,"details":["line 1","^"]}`,
		},
		{
			name:         "text error",
			r:            TextErr(http.StatusInternalServerError, "oops", "panic"),
			expectStatus: http.StatusInternalServerError,
			expectBody:   "oops",
			expectHdrs:   map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		},
		{
			name:         "redirect",
			r:            Redirection("/api/v1/info"),
			expectStatus: http.StatusPermanentRedirect,
			expectHdrs:   map[string]string{"Location": "/api/v1/info"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			w := httptest.NewRecorder()
			tc.r.WriteResponse(w)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectBody, w.Body.String())
			for k, v := range tc.expectHdrs {
				assert.Equal(v, w.Header().Get(k), "header %s", k)
			}
		})
	}
}

func Test_Result_InternalMsg(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("OK", OK(nil).InternalMsg)
	assert.Equal("user 'x' got 3", OK(nil, "user '%s' got %d", "x", 3).InternalMsg)
	assert.Equal("bad request", BadRequest("nope").InternalMsg)
}

func Test_Result_WithHeader_DoesNotShareHeaders(t *testing.T) {
	assert := assert.New(t)

	base := OK(nil).WithHeader("X-A", "1")
	first := base.WithHeader("X-B", "2")
	second := base.WithHeader("X-C", "3")

	w := httptest.NewRecorder()
	second.WriteResponse(w)
	assert.Equal("1", w.Header().Get("X-A"))
	assert.Equal("3", w.Header().Get("X-C"))
	assert.Empty(w.Header().Get("X-B"))

	w = httptest.NewRecorder()
	first.WriteResponse(w)
	assert.Equal("2", w.Header().Get("X-B"))
}

func Test_Result_Body(t *testing.T) {
	assert := assert.New(t)

	r := BadRequest("words: missing")
	var decoded ErrorResponse
	data, err := json.Marshal(r.Body())
	assert.NoError(err)
	assert.NoError(json.Unmarshal(data, &decoded))
	assert.Equal("words: missing", decoded.Error)
	assert.Equal(http.StatusBadRequest, decoded.Status)
}
