package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type trackingBody struct {
	io.Reader
	read   int
	closed bool
}

func (b *trackingBody) Read(p []byte) (int, error) {
	n, err := b.Reader.Read(p)
	b.read += n
	return n, err
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestDrainAndCloseRequest(t *testing.T) {
	t.Run("small body drained", func(t *testing.T) {
		body := &trackingBody{Reader: bytes.NewReader([]byte(`{"weight":228.4}`))}
		handler := DrainAndCloseRequest(DefaultMaxDrain)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		)

		req := httptest.NewRequest(http.MethodPost, "/weight", nil)
		req.Body = body
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, 16, body.read)
		assert.True(t, body.closed)
	})

	t.Run("large photo drained up to limit", func(t *testing.T) {
		body := &trackingBody{Reader: bytes.NewReader(make([]byte, 4096))}
		handler := DrainAndCloseRequest(1024)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "error, image too large", http.StatusBadRequest)
			}),
		)

		req := httptest.NewRequest(http.MethodPost, "/meals/estimate", nil)
		req.Body = body
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, 1024, body.read)
		assert.True(t, body.closed)
	})
}
