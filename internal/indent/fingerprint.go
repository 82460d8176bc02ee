package indent

import (
	"crypto/sha256"

	"github.com/vmihailenco/msgpack/v5"
)

// fingerprintVersion is bumped whenever the formatting rules change in a way
// that invalidates previously formatted output.
const fingerprintVersion = 1

type fingerprintPayload struct {
	Version       int    `msgpack:"v"`
	LineComment   string `msgpack:"line"`
	BlockOpen     string `msgpack:"bopen"`
	BlockClose    string `msgpack:"bclose"`
	BlockContinue string `msgpack:"bcont"`
	Unit          string `msgpack:"unit"`
	Pairs         []Pair `msgpack:"pairs"`
	Ignore        string `msgpack:"ignore"`
	Quote         string `msgpack:"quote"`
}

// Fingerprint returns a stable digest of the effective configuration.
// Two configs with equal fingerprints format every input identically.
func (c Config) Fingerprint() [32]byte {
	c = c.withDefaults()
	payload := fingerprintPayload{
		Version:       fingerprintVersion,
		LineComment:   c.LineComment,
		BlockOpen:     c.BlockOpen,
		BlockClose:    c.BlockClose,
		BlockContinue: c.BlockContinue,
		Unit:          c.Unit,
		Pairs:         c.Pairs,
		Ignore:        c.Ignore,
		Quote:         c.Quote,
	}
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		// Only strings and slices of strings; cannot fail.
		panic(err)
	}
	return sha256.Sum256(data)
}
