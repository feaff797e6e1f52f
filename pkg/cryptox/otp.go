package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// OTPDigits is the length of generated one-time codes.
const OTPDigits = otp.DigitsSix

// GenerateOTPCode produces a random numeric one-time code suitable for
// delivery over email or SMS. The code is derived with HOTP from a fresh
// random secret, so every call yields an independent, uniformly distributed
// six-digit code.
func GenerateOTPCode() (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate OTP secret: %w", err)
	}
	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)

	code, err := hotp.GenerateCodeCustom(secret, 0, hotp.ValidateOpts{
		Digits:    OTPDigits,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("cryptox: failed to derive OTP code: %w", err)
	}
	return code, nil
}
