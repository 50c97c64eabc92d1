package ledger

import (
	"errors"
	"math"

	"gorm.io/gorm"
)

type SettleStatus int

const (
	// SettleOK means tokens were redistributed.
	SettleOK SettleStatus = iota
	// SettleNoBets means the poll had no open bet with a chosen option.
	SettleNoBets
	// SettleNothingToWin means nobody backed a losing option, so there was
	// no pool to pay winners from.
	SettleNothingToWin
)

// BetResult is one member's settlement outcome. Win is negative for losers.
type BetResult struct {
	MemberID   uint
	MemberName string
	Win        int
	Tokens     int
}

// settleableBet is a bet joined with its member and chosen option. Bets with
// no chosen option never match the join and sit out the settlement.
type settleableBet struct {
	Amount     int
	MemberID   uint
	TgIndex    int
	MemberName string
	Tokens     int
}

// ClosePoll settles every open bet on the poll against the judged-correct
// option index. Losers forfeit their stake into the pool, winners split the
// pool in proportion to their own stake, rounded down; the flooring remainder
// stays with the house. All reads and writes share one transaction, and every
// open bet on the poll comes out settled, so a repeated close finds nothing
// left to pay.
func (g *Group) ClosePoll(tgPollId string, correctIndex int) ([]BetResult, SettleStatus, error) {
	var results []BetResult
	status := SettleOK

	err := g.db.Transaction(func(tx *gorm.DB) error {
		var poll Poll
		err := tx.Where("tg_poll_id = ?", tgPollId).First(&poll).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoSuchPoll
		}
		if err != nil {
			return err
		}

		var bets []settleableBet
		err = tx.Model(&Bet{}).
			Select("bets.amount, bets.member_id, poll_options.tg_index, members.name AS member_name, members.tokens").
			Joins("JOIN poll_options ON bets.poll_option_id = poll_options.id").
			Joins("JOIN members ON bets.member_id = members.id").
			Where("bets.poll_id = ? AND bets.open = ?", poll.ID, true).
			Scan(&bets).Error
		if err != nil {
			return err
		}

		if len(bets) == 0 {
			status = SettleNoBets
			return settleBets(tx, poll.ID)
		}

		var correct, wrong []settleableBet
		var totalCorrectStake, winnable int
		for _, bet := range bets {
			if bet.TgIndex == correctIndex {
				correct = append(correct, bet)
				totalCorrectStake += bet.Amount
			} else {
				wrong = append(wrong, bet)
				winnable += bet.Amount
			}
		}

		if winnable == 0 {
			status = SettleNothingToWin
			return settleBets(tx, poll.ID)
		}

		results = make([]BetResult, 0, len(bets))
		for _, bet := range correct {
			winFactor := float64(bet.Amount) / float64(totalCorrectStake)
			win := int(math.Floor(winFactor * float64(winnable)))
			newTokens := bet.Tokens + win

			err = tx.Model(&Member{}).Where("id = ?", bet.MemberID).Update("tokens", newTokens).Error
			if err != nil {
				return err
			}
			results = append(results, BetResult{MemberID: bet.MemberID, MemberName: bet.MemberName, Win: win, Tokens: newTokens})
		}
		for _, bet := range wrong {
			newTokens := bet.Tokens - bet.Amount

			err = tx.Model(&Member{}).Where("id = ?", bet.MemberID).Update("tokens", newTokens).Error
			if err != nil {
				return err
			}
			results = append(results, BetResult{MemberID: bet.MemberID, MemberName: bet.MemberName, Win: -bet.Amount, Tokens: newTokens})
		}

		return settleBets(tx, poll.ID)
	})
	if err != nil {
		return nil, SettleOK, wrapErr(err)
	}

	return results, status, nil
}

func settleBets(tx *gorm.DB, pollId uint) error {
	return tx.Model(&Bet{}).Where("poll_id = ?", pollId).Update("open", false).Error
}
