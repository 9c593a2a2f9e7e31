package domain

import (
	"fmt"
	"io/fs"
	"strings"
)

type Operation string

const (
	OperationListUsers  Operation = "list_users"
	OperationDeletePath Operation = "delete_path"
	OperationReadFile   Operation = "read_file"
	OperationWriteFile  Operation = "write_file"
)

func (o Operation) Valid() bool {
	switch o {
	case OperationListUsers, OperationDeletePath, OperationReadFile, OperationWriteFile:
		return true
	default:
		return false
	}
}

// Request is a front-end originated call addressed to the privileged side.
type Request struct {
	Operation Operation
	Path      string
	Data      []byte
	Mode      fs.FileMode
}

func (r Request) Validate() error {
	if !r.Operation.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownOperation, r.Operation)
	}
	if r.Operation != OperationListUsers && strings.TrimSpace(r.Path) == "" {
		return fmt.Errorf("%s: path is required: %w", r.Operation, ErrNotPermitted)
	}

	return nil
}

// Response carries the payload of a successful Request. Only the field that
// matches the operation is populated.
type Response struct {
	Users []User
	Data  []byte
}
