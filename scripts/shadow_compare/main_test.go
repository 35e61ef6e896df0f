package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapEnvelope(t *testing.T) {
	assert.JSONEq(t, `[{"roleId":1}]`, string(unwrapEnvelope([]byte(`{"data":[{"roleId":1}]}`))))
	assert.Equal(t, `[1,2]`, string(unwrapEnvelope([]byte(`[1,2]`))))
	assert.Equal(t, `{"error":{}}`, string(unwrapEnvelope([]byte(`{"error":{}}`))))
}

func TestBodiesEqualIgnoresKeysAndNumberForms(t *testing.T) {
	a := []byte(`{"roleId":1,"roleName":"Administrator","createdAt":"2024-01-01"}`)
	b := []byte(`{"roleId":1.0,"roleName":"Administrator","createdAt":"2025-06-30"}`)
	assert.True(t, bodiesEqual(a, b, []string{"createdAt"}))
	assert.False(t, bodiesEqual(a, b, nil))
	assert.False(t, bodiesEqual([]byte(`not json`), b, nil))
}

func TestTally(t *testing.T) {
	results := []comparison{
		{Target: target{Critical: true}, StatusMatch: true, BodyMatch: true},
		{Target: target{Critical: true}, StatusMatch: false},
		{Target: target{Critical: false}, StatusMatch: true, BodyMatch: false},
		{Target: target{Critical: false}, Error: errors.New("timeout")},
		{Target: target{Critical: true}, Error: errors.New("refused")},
	}
	breaking, optional := tally(results)
	assert.Equal(t, 2, breaking)
	assert.Equal(t, 1, optional)
}

func TestCompareTargetUnwrapsGoEnvelope(t *testing.T) {
	var goAuth string
	goSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		goAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/v1/roles/1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"data":{"roleId":1,"roleName":"Teacher","updatedAt":"x"}}`)
	}))
	defer goSrv.Close()
	legacySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"roleId":1,"roleName":"Teacher","updatedAt":"y"}`)
	}))
	defer legacySrv.Close()

	opts := options{goBase: goSrv.URL, legacyBase: legacySrv.URL, token: "abc", ignore: []string{"updatedAt"}}
	comp := compareTarget(context.Background(), goSrv.Client(), opts, "/api/v1", target{Method: "get", Path: "roles/1"})

	require.NoError(t, comp.Error)
	assert.True(t, comp.StatusMatch)
	assert.True(t, comp.BodyMatch)
	assert.Equal(t, "Bearer abc", goAuth)
}
