package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaantopcuw/NightFlow/pkg/status"
)

func TestDestruct(t *testing.T) {
	t.Run("resolves an application error", func(t *testing.T) {
		err := New(http.StatusConflict, status.CONFLICT, "insufficient capacity")

		ae := Destruct(err)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatusCode)
		assert.Equal(t, status.CONFLICT, ae.Status)
		assert.Equal(t, "insufficient capacity", ae.Message)
	})

	t.Run("swallows unknown error types", func(t *testing.T) {
		ae := Destruct(fmt.Errorf("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatusCode)
		assert.Equal(t, "internal server error", ae.Message)
	})
}

func TestIsInternal(t *testing.T) {
	assert.True(t, IsInternal(New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "boom")))
	assert.True(t, IsInternal(fmt.Errorf("raw error")))
	assert.False(t, IsInternal(New(http.StatusNotFound, status.NOT_FOUND, "missing")))
	assert.False(t, IsInternal(New(http.StatusConflict, status.CONFLICT, "conflict")))
}
