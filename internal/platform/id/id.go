package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator creates opaque identifiers, used to tag playbacks in logs and events.
type Generator interface {
	New() string
}

type RandomHex struct{}

func (RandomHex) New() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
