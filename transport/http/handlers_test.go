package http

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/nftgate/adapters/repo"
	"github.com/layer-3/nftgate/adapters/store"
	"github.com/layer-3/nftgate/adapters/tokenizer"
	"github.com/layer-3/nftgate/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var holderAddr = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

type fakeContract struct{}

func (fakeContract) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	if owner == holderAddr {
		return big.NewInt(1), nil
	}
	return big.NewInt(0), nil
}

func (fakeContract) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	if owner == holderAddr {
		return big.NewInt(42), nil
	}
	return nil, errors.New("no token")
}

type fakeIndexer struct{}

func (fakeIndexer) RecentTransactionCount(ctx context.Context, address common.Address) (int, error) {
	return 25, nil
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tk, err := tokenizer.NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)

	sessions := service.NewSessionService(tk, store.NewMemoryStore(), nil, zerolog.Nop())
	oracle := service.NewOwnershipService(fakeContract{}, fakeIndexer{}, zerolog.Nop())
	identities := service.NewIdentityService(repo.NewMemoryRepo(), oracle, sessions, nil, zerolog.Nop())

	return SetupRouter(identities, sessions)
}

func doJSON(router *gin.Engine, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVerifyEndpointHolder(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/n1nj4/verify",
		`{"credentialId":"cred-1","walletAddress":"`+holderAddr.Hex()+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success      bool   `json:"success"`
		SessionToken string `json:"sessionToken"`
		IdentityID   string `json:"identityId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.SessionToken)
	assert.NotEmpty(t, resp.IdentityID)

	// The issued token opens the protected surface.
	me := doJSON(router, http.MethodGet, "/api/me", "", resp.SessionToken)
	assert.Equal(t, http.StatusOK, me.Code)
}

func TestVerifyEndpointNonHolder(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/n1nj4/verify",
		`{"credentialId":"cred-1","walletAddress":"0x2222222222222222222222222222222222222222"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyEndpointWalletMismatch(t *testing.T) {
	router := setupTestRouter(t)

	first := doJSON(router, http.MethodPost, "/api/v1/n1nj4/verify",
		`{"credentialId":"cred-1","walletAddress":"`+holderAddr.Hex()+`"}`, "")
	require.Equal(t, http.StatusOK, first.Code)

	// Same holder balance, different address string: rejected with 400.
	second := doJSON(router, http.MethodPost, "/api/v1/n1nj4/verify",
		`{"credentialId":"cred-1","walletAddress":"`+strings.ToLower(holderAddr.Hex())+`"}`, "")
	assert.Equal(t, http.StatusBadRequest, second.Code)
}

func TestVerifyEndpointBadRequest(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/n1nj4/verify", `{"credentialId":"cred-1"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryIdentitiesEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet,
		"/api/v1/n1nj4/identities?walletAddresses="+holderAddr.Hex()+",0x2222222222222222222222222222222222222222", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Identities []struct {
			WalletAddress string `json:"walletAddress"`
			IsVerified    bool   `json:"isVerified"`
		} `json:"identities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Identities, 2)
	assert.False(t, resp.Identities[0].IsVerified)
	assert.False(t, resp.Identities[1].IsVerified)
}

func TestQueryIdentitiesEndpointEmpty(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/n1nj4/identities", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReputationEndpointUnknownCredential(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/n1nj4/reputation/nope", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeveloperProfileEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	first := doJSON(router, http.MethodPost, "/api/v1/n1nj4/verify",
		`{"credentialId":"cred-1","walletAddress":"`+holderAddr.Hex()+`"}`, "")
	require.Equal(t, http.StatusOK, first.Code)

	w := doJSON(router, http.MethodGet, "/api/v1/n1nj4/developer/cred-1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"credentialId":"cred-1"`)
}

func TestSessionEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	verified := doJSON(router, http.MethodPost, "/api/v1/n1nj4/verify",
		`{"credentialId":"cred-1","walletAddress":"`+holderAddr.Hex()+`"}`, "")
	require.Equal(t, http.StatusOK, verified.Code)

	var resp struct {
		SessionToken string `json:"sessionToken"`
	}
	require.NoError(t, json.Unmarshal(verified.Body.Bytes(), &resp))

	check := doJSON(router, http.MethodPost, "/api/v1/n1nj4/session/verify", "", resp.SessionToken)
	assert.Equal(t, http.StatusOK, check.Code)

	refreshed := doJSON(router, http.MethodPost, "/api/v1/n1nj4/session/refresh", "", resp.SessionToken)
	require.Equal(t, http.StatusOK, refreshed.Code)

	// The old token no longer verifies.
	stale := doJSON(router, http.MethodPost, "/api/v1/n1nj4/session/verify", "", resp.SessionToken)
	assert.Equal(t, http.StatusUnauthorized, stale.Code)

	var refreshResp struct {
		SessionToken string `json:"sessionToken"`
	}
	require.NoError(t, json.Unmarshal(refreshed.Body.Bytes(), &refreshResp))

	revoked := doJSON(router, http.MethodPost, "/api/v1/n1nj4/session/revoke", "", refreshResp.SessionToken)
	assert.Equal(t, http.StatusOK, revoked.Code)

	gone := doJSON(router, http.MethodPost, "/api/v1/n1nj4/session/verify", "", refreshResp.SessionToken)
	assert.Equal(t, http.StatusUnauthorized, gone.Code)
}

func TestSessionEndpointsUniformInvalidResponse(t *testing.T) {
	router := setupTestRouter(t)

	for _, path := range []string{"/session/verify", "/session/refresh"} {
		missing := doJSON(router, http.MethodPost, "/api/v1/n1nj4"+path, "", "")
		assert.Equal(t, http.StatusUnauthorized, missing.Code, path)
		assert.Contains(t, missing.Body.String(), `"valid":false`, path)

		garbage := doJSON(router, http.MethodPost, "/api/v1/n1nj4"+path, "", "garbage")
		assert.Equal(t, http.StatusUnauthorized, garbage.Code, path)
		assert.Contains(t, garbage.Body.String(), `"valid":false`, path)
	}
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	router := setupTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doJSON(router, http.MethodGet, "/api/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(router, http.MethodGet, "/api/me", "", "garbage").Code)
}
