package handlers

import (
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/api/auth/nonce", GetNonce)
	app.Post("/api/auth/login", Login)
	return app
}

func TestWalletLoginFlow(t *testing.T) {
	app := newAuthApp()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	resp, body := doJSON(t, app, "GET", "/api/auth/nonce?address="+address, nil, "")
	require.Equal(t, 200, resp.StatusCode)
	message, ok := body["message"].(string)
	require.True(t, ok)
	require.NotEmpty(t, message)

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	sig, err := crypto.Sign(crypto.Keccak256([]byte(prefixed)), key)
	require.NoError(t, err)
	sig[64] += 27

	resp, body = doJSON(t, app, "POST", "/api/auth/login", LoginRequest{
		Address:   address,
		Signature: hexutil.Encode(sig),
	}, "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	// Nonce is one-time use: replaying the same signature fails.
	resp, _ = doJSON(t, app, "POST", "/api/auth/login", LoginRequest{
		Address:   address,
		Signature: hexutil.Encode(sig),
	}, "")
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLogin_RejectsWrongSigner(t *testing.T) {
	app := newAuthApp()

	victim, err := crypto.GenerateKey()
	require.NoError(t, err)
	attacker, err := crypto.GenerateKey()
	require.NoError(t, err)
	victimAddr := crypto.PubkeyToAddress(victim.PublicKey).Hex()

	resp, body := doJSON(t, app, "GET", "/api/auth/nonce?address="+victimAddr, nil, "")
	require.Equal(t, 200, resp.StatusCode)
	message := body["message"].(string)

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	sig, err := crypto.Sign(crypto.Keccak256([]byte(prefixed)), attacker)
	require.NoError(t, err)
	sig[64] += 27

	resp, _ = doJSON(t, app, "POST", "/api/auth/login", LoginRequest{
		Address:   victimAddr,
		Signature: hexutil.Encode(sig),
	}, "")
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLogin_WithoutNonce(t *testing.T) {
	app := newAuthApp()

	resp, _ := doJSON(t, app, "POST", "/api/auth/login", LoginRequest{
		Address:   "0x4444444444444444444444444444444444444444",
		Signature: "0x00",
	}, "")
	assert.Equal(t, 401, resp.StatusCode)
}

func TestSweepExpiredNonces(t *testing.T) {
	now := time.Now()

	nonceMu.Lock()
	nonceStore["0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"] = nonceEntry{Nonce: "stale", ExpiresAt: now.Add(-time.Minute)}
	nonceStore["0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"] = nonceEntry{Nonce: "fresh", ExpiresAt: now.Add(nonceTTL)}
	nonceMu.Unlock()

	sweepExpiredNonces(now)

	nonceMu.Lock()
	defer nonceMu.Unlock()
	_, staleLeft := nonceStore["0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"]
	_, freshLeft := nonceStore["0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"]
	assert.False(t, staleLeft)
	assert.True(t, freshLeft)
}

func TestGetNonce_RejectsInvalidAddress(t *testing.T) {
	app := newAuthApp()

	resp, _ := doJSON(t, app, "GET", "/api/auth/nonce?address=nope", nil, "")
	assert.Equal(t, 400, resp.StatusCode)
}
