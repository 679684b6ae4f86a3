package storefront

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yanizio/storefront/internal/prismic"
)

func TestErrorStatusAndMessage(t *testing.T) {
	cause := errors.New("cause")
	cases := []struct {
		kind   Kind
		status int
		msg    string
	}{
		{KindConfiguration, http.StatusNotFound, msgConfiguration},
		{KindUpstream, http.StatusInternalServerError, "Error 500: cause"},
		{KindNotFound, http.StatusNotFound, "Not Found"},
		{KindMissingLayout, http.StatusInternalServerError, msgMissingLayout},
		{KindValidation, http.StatusBadRequest, "cause"},
	}
	for _, c := range cases {
		e := &Error{Kind: c.kind, Err: cause}
		assert.Equal(t, c.status, e.Status(), c.kind.String())
		assert.Equal(t, c.msg, e.Message(), c.kind.String())
		assert.ErrorIs(t, e, cause)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindConfiguration, ClassifyOpen(&prismic.Error{Status: http.StatusForbidden}).Kind)
	assert.Equal(t, KindUpstream, ClassifyOpen(errors.New("decode")).Kind)
	assert.Equal(t, KindNotFound, classifyFetch(fmt.Errorf("wrap: %w", prismic.ErrNotFound)).Kind)
	assert.Equal(t, KindUpstream, classifyFetch(errors.New("x")).Kind)
}
