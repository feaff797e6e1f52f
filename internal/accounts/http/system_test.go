package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assignhub/assignhub/pkg/accountsdk"
)

func TestLivezEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/livez", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res accountsdk.HealthResponse
	decodeResponse(t, rec, &res)
	require.Equal(t, "ok", res.Status)
	require.Equal(t, "test", res.Version)
	require.NotEmpty(t, res.Uptime)
	require.Nil(t, res.Checks)
}

func TestReadyzEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/readyz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res accountsdk.HealthResponse
	decodeResponse(t, rec, &res)
	require.Equal(t, "ok", res.Status)
	require.NotNil(t, res.Checks)
	require.Equal(t, "ok", res.Checks.Database)
	require.Equal(t, "ok", res.Checks.Signer)
}

func TestJWKSEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/.well-known/jwks.json", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res accountsdk.JWKSResponse
	decodeResponse(t, rec, &res)
	require.Len(t, res.Keys, 1)
	require.Equal(t, "OKP", res.Keys[0].Kty)
	require.Equal(t, "Ed25519", res.Keys[0].Crv)
	require.NotEmpty(t, res.Keys[0].Kid)
	require.NotEmpty(t, res.Keys[0].X)
}
