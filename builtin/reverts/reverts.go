// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected operation.
type Kind string

const (
	ExposureExceeded          Kind = "ExposureExceeded"
	UnprocessedActionsPending Kind = "UnprocessedActionsPending"
	InsufficientReward        Kind = "InsufficientReward"
	Unauthorized              Kind = "Unauthorized"
	ArithmeticOverflow        Kind = "ArithmeticOverflow"
	ProcessingFailed          Kind = "ProcessingFailed"
	InvalidArgument           Kind = "InvalidArgument"
	UnexpectedContractOrder   Kind = "UnexpectedContractOrder"
	StakeDecrease             Kind = "StakeDecrease"
	MinStakeNotMet            Kind = "MinStakeNotMet"
	StakeExceedsDeposit       Kind = "StakeExceedsDeposit"
	InsufficientDeposit       Kind = "InsufficientDeposit"
	UnstakeExceedsStake       Kind = "UnstakeExceedsStake"
	ZeroAmount                Kind = "ZeroAmount"
	UnknownParameter          Kind = "UnknownParameter"
	InsufficientBalance       Kind = "InsufficientBalance"
	InsufficientAllowance     Kind = "InsufficientAllowance"
)

// ErrRevert is a rejected operation. A revert never leaves partial state behind.
type ErrRevert struct {
	kind    Kind
	message string
	cause   error
}

// New creates a revert of the given kind.
func New(kind Kind, format string, args ...any) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a revert of the given kind caused by err.
func Wrap(kind Kind, err error, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
		cause:   err,
	}
}

func (e *ErrRevert) Error() string {
	msg := string(e.kind)
	if e.message != "" {
		msg += ": " + e.message
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Kind returns the kind of the revert.
func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Message returns the message without kind and cause.
func (e *ErrRevert) Message() string {
	return e.message
}

func (e *ErrRevert) Unwrap() error {
	return e.cause
}

// Is reports kind equality, so errors.Is(err, reverts.New(kind, "")) matches any message.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.kind == e.kind
}

// Is reports whether any revert in err's chain has the given kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, &ErrRevert{kind: kind})
}

// KindOf returns the kind of the outermost revert in err's chain.
func KindOf(err error) (Kind, bool) {
	var r *ErrRevert
	if errors.As(err, &r) {
		return r.kind, true
	}
	return "", false
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
