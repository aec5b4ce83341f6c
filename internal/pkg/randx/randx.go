/*
Package randx provides functions for generating random identifiers.

It is primarily used to generate room identifiers with a fixed random suffix
and standard UUID session/message IDs.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// RoomIDPrefix is the fixed prefix for generated room identifiers.
	RoomIDPrefix = "room_"

	// RoomIDSuffixLength is the length of the random suffix following RoomIDPrefix.
	RoomIDSuffixLength = 7
)

// RoomID generates a room identifier of the form "room_" followed by
// RoomIDSuffixLength random Base62 characters. The suffix is drawn from
// crypto/rand, which makes collisions between live rooms negligible; there is
// no cryptographic requirement on the identifier itself.
func RoomID() (string, error) {
	result := make([]byte, RoomIDSuffixLength)

	for i := 0; i < RoomIDSuffixLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for room id: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return RoomIDPrefix + string(result), nil
}

// SessionID generates a UUID v4 string used as the opaque, server-assigned
// identifier of a client connection.
func SessionID() string {
	return uuid.New().String()
}

// IsValidRoomID checks if the given string has the shape of a generated room
// identifier: the fixed prefix followed by exactly RoomIDSuffixLength Base62
// characters.
func IsValidRoomID(id string) bool {
	if !strings.HasPrefix(id, RoomIDPrefix) {
		return false
	}

	suffix := id[len(RoomIDPrefix):]

	if len(suffix) != RoomIDSuffixLength {
		return false
	}

	for _, char := range suffix {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
