package osdb

import (
	"errors"
	"fmt"

	"github.com/kolo/xmlrpc"
)

// RPCError reports a fault raised by the remote service.
type RPCError struct {
	Code    int
	Message string
}

func (e RPCError) Error() string {
	return fmt.Sprintf("service fault %d: %s", e.Code, e.Message)
}

// ParseError reports a result record missing an expected field or carrying
// one of the wrong type.
type ParseError struct {
	Field  string
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("result field %q: %s", e.Field, e.Reason)
}

// wrapCall normalizes a failed XML-RPC call: service faults become RPCError,
// transport failures keep their cause.
func wrapCall(method string, err error) error {
	var fault xmlrpc.FaultError
	if errors.As(err, &fault) {
		return fmt.Errorf("%s: %w", method, RPCError{Code: fault.Code, Message: fault.String})
	}
	return fmt.Errorf("%s: %w", method, err)
}
