// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

func TestOK_BareObject(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, map[string]string{"username": "alice"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"username":"alice"}`, recorder.Body.String())
}

/*
TestPaginated renders results and meta, with an empty list for nil input.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated[string](recorder, nil, pagination.NewMeta(pagination.Params{Page: 1, Limit: 20}, 0))

	assert.JSONEq(t, `{"results":[],"meta":{"page":1,"limit":20,"total":0,"total_pages":0}}`, recorder.Body.String())
}

/*
TestError maps AppErrors and hides unexpected errors behind a 500.
*/
func TestError(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	recorder := httptest.NewRecorder()
	respond.Error(recorder, request, apperr.FieldInvalid("confirmation_code", "Invalid confirmation code"))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeValidation, body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "confirmation_code", body.Details[0].Field)

	recorder = httptest.NewRecorder()
	respond.Error(recorder, request, errors.New("pq: secret internals"))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "secret internals")
}
