package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Run("ShouldClassifyRateLimitPatterns", func(t *testing.T) {
		for _, msg := range []string{
			"request failed: 429 Too Many Requests",
			"you have exceeded your quota",
			"rate limit reached for model",
		} {
			assert.Equal(t, RateLimited, Classify(errors.New(msg)), msg)
		}
	})

	t.Run("ShouldClassifyAuthPatterns", func(t *testing.T) {
		for _, msg := range []string{
			"invalid api_key provided",
			"401 unauthorized",
			"403 forbidden for this key",
			"authentication failed",
		} {
			assert.Equal(t, AuthFailure, Classify(errors.New(msg)), msg)
		}
	})

	t.Run("ShouldPreferRateLimitOverAuthWhenBothMatch", func(t *testing.T) {
		assert.Equal(t, RateLimited, Classify(errors.New("api_key quota exceeded")))
	})

	t.Run("ShouldClassifySentinels", func(t *testing.T) {
		assert.Equal(t, InvalidRequest, Classify(fmt.Errorf("chat: %w", ErrInvalidRequest)))
		assert.Equal(t, NotFound, Classify(fmt.Errorf("book x: %w", ErrNotFound)))
		assert.Equal(t, NotFound, Classify(fmt.Errorf("extract: %w", fs.ErrNotExist)))
		assert.Equal(t, AuthFailure, Classify(ErrNoProvider))
	})

	t.Run("ShouldFallBackToUnknown", func(t *testing.T) {
		assert.Equal(t, Unknown, Classify(errors.New("connection reset by peer")))
	})
}

func TestKind(t *testing.T) {
	t.Run("ShouldMapKindsToStableMessagesAndStatuses", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, InvalidRequest.HTTPStatus())
		assert.Equal(t, http.StatusNotFound, NotFound.HTTPStatus())
		assert.Equal(t, http.StatusTooManyRequests, RateLimited.HTTPStatus())
		assert.Equal(t, http.StatusInternalServerError, AuthFailure.HTTPStatus())
		assert.Equal(t, http.StatusInternalServerError, Unknown.HTTPStatus())

		seen := map[string]bool{}
		for _, k := range []Kind{InvalidRequest, NotFound, RateLimited, AuthFailure, Unknown} {
			msg := k.Message()
			assert.NotEmpty(t, msg)
			assert.False(t, seen[msg], "message reused: %s", msg)
			seen[msg] = true
		}
	})
}
