package ledger

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// DefaultTokens is the starting balance handed to a member on join.
const DefaultTokens = 10000

// Group is the ledger for one betting community. Every operation runs
// against the group's own store, so groups never contend with each other.
type Group struct {
	db   *gorm.DB
	info GroupInfo
}

// Create initializes a fresh group store: migrates the schema and writes the
// singleton group_info row. Returns ErrConflict if the store was already
// initialized.
func Create(db *gorm.DB, chatId int64, description string) (*Group, error) {
	err := db.AutoMigrate(&GroupInfo{}, &Member{}, &Suggestion{}, &Poll{}, &PollOption{}, &Bet{})
	if err != nil {
		return nil, wrapErr(err)
	}

	var count int64
	if err = db.Model(&GroupInfo{}).Count(&count).Error; err != nil {
		return nil, wrapErr(err)
	}
	if count > 0 {
		return nil, ErrConflict
	}

	info := GroupInfo{TgID: chatId, Description: description}
	if err = db.Create(&info).Error; err != nil {
		return nil, wrapErr(err)
	}

	return &Group{db: db, info: info}, nil
}

// Open attaches to an already-initialized group store.
func Open(db *gorm.DB) (*Group, error) {
	var info GroupInfo
	if err := db.First(&info).Error; err != nil {
		return nil, wrapErr(err)
	}

	return &Group{db: db, info: info}, nil
}

func (g *Group) Info() GroupInfo {
	return g.info
}

func (g *Group) ChatId() int64 {
	return g.info.TgID
}

// Join adds a member with the given starting balance. Reports false without
// side effects when the user is already a member.
func (g *Group) Join(tgId int64, name string, tokens int) (bool, error) {
	var existing Member
	err := g.db.Where("tg_id = ?", tgId).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, wrapErr(err)
	}

	member := Member{TgID: tgId, Name: name, Tokens: tokens}
	if err = g.db.Create(&member).Error; err != nil {
		return false, wrapErr(err)
	}

	return true, nil
}

// Tokens returns the member's current balance, or ErrNotAMember.
func (g *Group) Tokens(tgId int64) (int, error) {
	var member Member
	err := g.db.Where("tg_id = ?", tgId).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotAMember
	}
	if err != nil {
		return 0, wrapErr(err)
	}

	return member.Tokens, nil
}

// AllIn returns the member's full balance as a wager amount. Non-members and
// broke members both get 0, which the caller must treat as "cannot go all-in".
func (g *Group) AllIn(tgId int64) (int, error) {
	tokens, err := g.Tokens(tgId)
	if errors.Is(err, ErrNotAMember) {
		return 0, nil
	}
	return tokens, err
}

func (g *Group) Suggest(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrValidation
	}

	return wrapErr(g.db.Create(&Suggestion{Text: text}).Error)
}

func (g *Group) Suggestions() ([]string, error) {
	var suggestions []Suggestion
	if err := g.db.Find(&suggestions).Error; err != nil {
		return nil, wrapErr(err)
	}

	texts := make([]string, len(suggestions))
	for i, s := range suggestions {
		texts[i] = s.Text
	}
	return texts, nil
}

// PollOptionDraft is one option of a generated poll, positional: its index
// in the slice handed to RecordPoll becomes the option's tg_index.
type PollOptionDraft struct {
	Text   string
	Rating float64
}

// RecordPoll stores a generated poll and its options under the externally
// issued poll and message ids. Returns ErrConflict when the poll id was
// already recorded for this group.
func (g *Group) RecordPoll(text string, options []PollOptionDraft, tgPollId string, tgMessageId int) (uint, error) {
	var pollId uint

	err := g.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Poll{}).Where("tg_poll_id = ?", tgPollId).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}

		poll := Poll{TgPollID: tgPollId, TgMessageID: tgMessageId, Text: text, Open: true}
		if err := tx.Create(&poll).Error; err != nil {
			return err
		}

		for i, o := range options {
			option := PollOption{TgIndex: i, Text: o.Text, Rating: o.Rating, PollID: poll.ID}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}

		pollId = poll.ID
		return nil
	})
	if err != nil {
		return 0, wrapErr(err)
	}

	return pollId, nil
}

func (g *Group) GetPoll(tgPollId string) (*Poll, error) {
	var poll Poll
	err := g.db.Where("tg_poll_id = ?", tgPollId).First(&poll).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSuchPoll
	}
	if err != nil {
		return nil, wrapErr(err)
	}

	return &poll, nil
}
