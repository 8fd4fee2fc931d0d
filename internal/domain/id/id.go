// Package id generates the short base-36 identifiers used for every record.
package id

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Length is the number of base-36 characters in a generated id.
const Length = 9

// New returns a random 9-character lowercase base-36 string. Collisions are
// possible and not guarded against.
func New() string {
	u := uuid.New()
	s := new(big.Int).SetBytes(u[:]).Text(36)
	if len(s) < Length {
		return strings.Repeat("0", Length-len(s)) + s
	}
	return s[len(s)-Length:]
}
