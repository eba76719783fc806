// handlers/auth.go - Wallet-signature login
package handlers

import (
	"fmt"
	"sync"
	"time"

	"chronoline/middleware"
	"chronoline/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const nonceTTL = 5 * time.Minute

type nonceEntry struct {
	Nonce     string
	ExpiresAt time.Time
}

// Pending login nonces keyed by normalized wallet address. One-time use.
var (
	nonceMu    sync.Mutex
	nonceStore = make(map[string]nonceEntry)
)

func init() {
	// Sweep nonces issued to addresses that never log in
	go startNonceSweep()
}

func startNonceSweep() {
	ticker := time.NewTicker(nonceTTL)
	defer ticker.Stop()

	for range ticker.C {
		sweepExpiredNonces(time.Now())
	}
}

func sweepExpiredNonces(now time.Time) {
	nonceMu.Lock()
	defer nonceMu.Unlock()

	for key, entry := range nonceStore {
		if now.After(entry.ExpiresAt) {
			delete(nonceStore, key)
		}
	}
}

type LoginRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

type AuthResponse struct {
	Success       bool   `json:"success"`
	Token         string `json:"token,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	ExpiresAt     int64  `json:"expires_at,omitempty"`
	Error         string `json:"error,omitempty"`
}

// GetNonce issues a short-lived nonce the wallet must sign to log in.
// GET /api/auth/nonce?address=0x...
func GetNonce(c *fiber.Ctx) error {
	address := c.Query("address")
	if !utils.IsValidAddress(address) {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid wallet address"})
	}

	nonce := uuid.New().String()
	key := utils.NormalizeAddress(address)

	nonceMu.Lock()
	nonceStore[key] = nonceEntry{Nonce: nonce, ExpiresAt: time.Now().Add(nonceTTL)}
	nonceMu.Unlock()

	return c.JSON(fiber.Map{
		"success": true,
		"nonce":   nonce,
		"message": loginMessage(nonce),
	})
}

// Login verifies a personal_sign signature over the issued nonce and returns
// a bearer token. The player row is not created here; it appears lazily on
// the first authenticated submission.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}

	if !utils.IsValidAddress(req.Address) {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid wallet address"})
	}
	if req.Signature == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Signature required"})
	}

	key := utils.NormalizeAddress(req.Address)

	nonceMu.Lock()
	entry, ok := nonceStore[key]
	if ok {
		delete(nonceStore, key) // one-time use
	}
	nonceMu.Unlock()

	if !ok || time.Now().After(entry.ExpiresAt) {
		return c.Status(401).JSON(AuthResponse{Success: false, Error: "Nonce expired or unknown. Request a new one."})
	}

	if err := utils.VerifyPersonalSignature(req.Address, loginMessage(entry.Nonce), req.Signature); err != nil {
		return c.Status(401).JSON(AuthResponse{Success: false, Error: "Signature verification failed"})
	}

	token, expiresAt, err := generateToken(key)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}

	return c.JSON(AuthResponse{
		Success:       true,
		Token:         token,
		WalletAddress: key,
		ExpiresAt:     expiresAt,
	})
}

func loginMessage(nonce string) string {
	return fmt.Sprintf("Sign in to Chronoline\n\nNonce: %s", nonce)
}

func generateToken(wallet string) (string, int64, error) {
	expiresAt := time.Now().Add(time.Hour * 720).Unix() // 30 days

	claims := jwt.MapClaims{
		"wallet": wallet,
		"exp":    expiresAt,
		"iat":    time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(middleware.JWTSecret()))
	if err != nil {
		return "", 0, err
	}
	return signed, expiresAt, nil
}
