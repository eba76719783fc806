// utils/wallet.go - Wallet address and signature helpers
package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress reports whether s looks like an Ethereum address.
func IsValidAddress(s string) bool {
	return addressRe.MatchString(s)
}

// NormalizeAddress lowercases an address so it can act as a stable identity
// key regardless of checksum casing.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// VerifyPersonalSignature checks an EIP-191 personal_sign signature of
// message against the claimed address.
func VerifyPersonalSignature(address, message, signature string) error {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return fmt.Errorf("malformed signature: %w", err)
	}
	if len(sig) != 65 {
		return fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}

	// Wallets return V as 27/28; go-ethereum expects 0/1
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	hash := crypto.Keccak256([]byte(prefixed))

	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return fmt.Errorf("signature recovery failed: %w", err)
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if NormalizeAddress(recovered.Hex()) != NormalizeAddress(address) {
		return fmt.Errorf("signature does not match address")
	}
	return nil
}
