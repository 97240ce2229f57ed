package solana

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrIncorrectProgram     = errors.New("incorrect program")
	ErrIncorrectInstruction = errors.New("incorrect instruction")
)

// CustomError is the numerical error returned by a non-system program.
type CustomError uint32

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %#x", uint32(c))
}

// InstructionError indicates an instruction returned an error during execution.
type InstructionError struct {
	Index int
	Err   error
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", i.Index, i.Err)
}

func (i InstructionError) Unwrap() error {
	return i.Err
}

// CustomError returns the custom error from the instruction, if one exists.
func (i InstructionError) CustomError() *CustomError {
	ce, ok := i.Err.(CustomError)
	if ok {
		return &ce
	}

	return nil
}
