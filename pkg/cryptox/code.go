package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// truncatedLimit is the largest multiple of 10^6 not above 2^31. Truncated
// values at or past it would favour the low codes and are redrawn.
const truncatedLimit = 2147000000

// GenerateNumericCode returns a 6-digit one-time code. It is the HOTP
// truncation of a fresh random secret at a random counter, so each code is
// independent of every code issued before it. Counters whose truncated value
// lands at or above truncatedLimit are skipped, which keeps all million codes
// equally likely.
func GenerateNumericCode() (string, error) {
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate code secret: %w", err)
	}

	var counter uint64
	for {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("failed to generate code counter: %w", err)
		}
		counter = binary.BigEndian.Uint64(buf[:])
		if truncate(secret, counter) < truncatedLimit {
			break
		}
	}

	code, err := hotp.GenerateCodeCustom(
		base32.StdEncoding.EncodeToString(secret),
		counter,
		hotp.ValidateOpts{Digits: otp.DigitsSix, Algorithm: otp.AlgorithmSHA1},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return code, nil
}

// truncate is the HOTP dynamic truncation of HMAC-SHA1(secret, counter).
func truncate(secret []byte, counter uint64) uint32 {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, secret)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	off := sum[len(sum)-1] & 0x0f
	return binary.BigEndian.Uint32(sum[off:off+4]) & 0x7fffffff
}
