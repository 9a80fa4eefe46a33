package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomCode returns a hex code of the given length, used for
// password reset codes sent by mail.
func GenerateRandomCode(length int) string {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in no state to hand
		// out codes at all
		panic(err)
	}
	return hex.EncodeToString(buf)[:length]
}
