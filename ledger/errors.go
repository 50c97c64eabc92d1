package ledger

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("invalid input")
var ErrNotAMember = errors.New("not a member of this group")
var ErrNoSuchPoll = errors.New("no such poll")
var ErrInvalidSelection = errors.New("invalid poll or option")
var ErrInsufficientFunds = errors.New("insufficient tokens")
var ErrDuplicateBet = errors.New("bet already placed for this poll")
var ErrNoOpenBet = errors.New("no open bet for this poll")
var ErrConflict = errors.New("already exists")
var ErrStorage = errors.New("storage failure")

var domainErrors = []error{
	ErrValidation,
	ErrNotAMember,
	ErrNoSuchPoll,
	ErrInvalidSelection,
	ErrInsufficientFunds,
	ErrDuplicateBet,
	ErrNoOpenBet,
	ErrConflict,
}

// wrapErr passes domain errors through untouched and folds everything else
// (failed queries, commit errors) onto ErrStorage.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	for _, domain := range domainErrors {
		if errors.Is(err, domain) {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrStorage, err.Error())
}
