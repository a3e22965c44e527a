package game

import "crypto/rand"

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenID produces a 6-char crypto-random alphanumeric id, used for both room
// and user ids. Collision checking against live tables is the caller's job
// (see Registry.AddRoom / Registry.AddUser).
func GenID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, 6)
	for i, b := range buf {
		out[i] = idAlphabet[int(b)%len(idAlphabet)]
	}

	return string(out)
}
