package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrRejectedByUser means the wallet holder declined to sign the operation.
	ErrRejectedByUser = errors.New("rejected by user")
	// ErrTimeout means the ledger did not settle the operation in time.
	ErrTimeout = errors.New("ledger timeout")
	// ErrNetwork covers transport failures before the ledger saw the operation.
	ErrNetwork = errors.New("network error")
)

// Codes the ledger RPC uses for user-level rejections.
const (
	codeRejectedByUser = 4001
	codeTimeout        = 4002
)

// ChainError is an authoritative rejection from the ledger itself.
type ChainError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

var _ error = ChainError{}

func (e ChainError) Error() string {
	return fmt.Sprintf("%d:%s", e.Code, e.Message)
}

func mapRPCError(code int, message string) error {
	switch code {
	case codeRejectedByUser:
		return ErrRejectedByUser
	case codeTimeout:
		return ErrTimeout
	default:
		return ChainError{Code: code, Message: message}
	}
}
