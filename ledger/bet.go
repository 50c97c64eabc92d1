package ledger

import (
	"errors"

	"gorm.io/gorm"
)

// PlaceBet records a wager by the member on the poll bound to the given
// message id and returns the balance that would remain. The stored balance is
// not touched here: tokens only move at settlement, placement just refuses
// amounts above the current balance. One bet per member per poll.
func (g *Group) PlaceBet(tgId int64, tgMessageId int, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrValidation
	}

	var remaining int

	err := g.db.Transaction(func(tx *gorm.DB) error {
		var member Member
		err := tx.Where("tg_id = ?", tgId).First(&member).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		if err != nil {
			return err
		}

		var poll Poll
		err = tx.Where("tg_message_id = ?", tgMessageId).First(&poll).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoSuchPoll
		}
		if err != nil {
			return err
		}

		if amount > member.Tokens {
			return ErrInsufficientFunds
		}

		var count int64
		err = tx.Model(&Bet{}).Where("member_id = ? AND poll_id = ?", member.ID, poll.ID).Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateBet
		}

		bet := Bet{Amount: amount, Open: true, MemberID: member.ID, PollID: poll.ID}
		if err = tx.Create(&bet).Error; err != nil {
			return err
		}

		remaining = member.Tokens - amount
		return nil
	})
	if err != nil {
		return 0, wrapErr(err)
	}

	return remaining, nil
}

// SelectOption binds the member's bet on the poll to the option with the
// given index. A repeated selection overwrites the previous one.
func (g *Group) SelectOption(tgId int64, tgPollId string, tgIndex int) error {
	err := g.db.Transaction(func(tx *gorm.DB) error {
		var option PollOption
		err := tx.Joins("JOIN polls ON polls.id = poll_options.poll_id").
			Where("polls.tg_poll_id = ? AND poll_options.tg_index = ?", tgPollId, tgIndex).
			First(&option).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidSelection
		}
		if err != nil {
			return err
		}

		var member Member
		err = tx.Where("tg_id = ?", tgId).First(&member).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		if err != nil {
			return err
		}

		res := tx.Model(&Bet{}).
			Where("poll_id = ? AND member_id = ?", option.PollID, member.ID).
			Update("poll_option_id", option.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoOpenBet
		}

		return nil
	})

	return wrapErr(err)
}
