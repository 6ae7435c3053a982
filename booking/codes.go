package booking

import (
	"crypto/rand"
	"math/big"

	"github.com/lithammer/shortuuid/v3"
)

// confirmationAlphabet leaves out the characters customers misread over the
// phone: 0, O, 1 and I.
const confirmationAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const confirmationLength = 16

type ConfirmationNumberGenerator interface {
	Generate() string
}

type TicketCodeGenerator interface {
	Generate() string
}

// RandomConfirmationNumberGenerator produces 16-character order confirmation
// numbers. Uniqueness is enforced by the database, not here; collisions are
// astronomically rare and handled by a single retry.
type RandomConfirmationNumberGenerator struct{}

func (RandomConfirmationNumberGenerator) Generate() string {
	max := big.NewInt(int64(len(confirmationAlphabet)))
	out := make([]byte, confirmationLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		out[i] = confirmationAlphabet[n.Int64()]
	}
	return string(out)
}

// ShortuuidTicketCodeGenerator produces the per-ticket codes printed on the
// tickets themselves.
type ShortuuidTicketCodeGenerator struct{}

func (ShortuuidTicketCodeGenerator) Generate() string {
	return shortuuid.New()
}
