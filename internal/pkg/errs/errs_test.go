package errs

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewError_KnownCode(t *testing.T) {
	req := require.New(t)

	err := NewError(ErrRoomNotFound)

	req.Equal(ErrRoomNotFound, err.Code)
	req.Equal("Room not found!", err.Message)
	req.Equal(http.StatusOK, err.Status)
}

func TestNewError_FormatsDetails(t *testing.T) {
	req := require.New(t)

	err := NewError(ErrDurationOutOfRange, 1, 60)

	req.Contains(err.Message, "1")
	req.Contains(err.Message, "60")
}

func TestNewError_UnknownCodeFallsBack(t *testing.T) {
	req := require.New(t)

	err := NewError(99999)

	req.Equal(ErrUnknown, err.Code)
	req.Equal(http.StatusInternalServerError, err.Status)
}

func TestCustomError_ErrorString(t *testing.T) {
	err := NewError(ErrMessageEmpty)

	require.Contains(t, err.Error(), "2201")
	require.Contains(t, err.Error(), err.Message)
}
