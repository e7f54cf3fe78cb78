package entity

import "errors"

var (
	ErrGateway             = errors.New("model gateway failure")
	ErrRateLimited         = errors.New("model gateway rate limited")
	ErrGatewayTimeout      = errors.New("model gateway timeout")
	ErrToolFailed          = errors.New("tool execution failed")
	ErrToolRoundsExhausted = errors.New("tool rounds exhausted")
	ErrDuplicateTool       = errors.New("tool already registered")
	ErrIncompleteRequest   = errors.New("incomplete request")
)
