package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Longitudes (en bytes aleatorios) y vigencias de los tokens de un solo uso.
const (
	ValidationTokenBytes = 20
	ResetTokenBytes      = 20
	InvitationTokenBytes = 32

	ValidationTokenTTL = time.Hour
	ResetTokenTTL      = time.Hour
	InvitationTokenTTL = 7 * 24 * time.Hour
)

// RandomToken devuelve n bytes aleatorios codificados en hex (2n caracteres).
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
