package tunnel

import "strings"

// Obfuscator implements the single-byte XOR scheme used to hide chat
// messages inside DNS labels. A message is prefixed with the signal string
// and every byte is XORed with the key before it goes on the wire.
//
// XOR is symmetric, so Decode is Encode run backwards with a prefix check.
// The zero key is valid and leaves bytes untouched.
type Obfuscator struct {
	Key    byte
	Signal string
}

// Encode obfuscates msg into a wire label. The caller is responsible for
// keeping the result within the DNS label length limit.
func (o Obfuscator) Encode(msg string) string {
	raw := []byte(o.Signal + msg)
	for i := range raw {
		raw[i] ^= o.Key
	}
	return string(raw)
}

// Decode deobfuscates a wire label. The second return value reports whether
// the label carried the signal prefix; labels without it are not messages.
func (o Obfuscator) Decode(label string) (string, bool) {
	raw := []byte(label)
	for i := range raw {
		raw[i] ^= o.Key
	}
	decoded := string(raw)
	if !strings.HasPrefix(decoded, o.Signal) {
		return "", false
	}
	return decoded[len(o.Signal):], true
}
