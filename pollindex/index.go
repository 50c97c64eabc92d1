// Package pollindex maps externally-issued poll ids to the chat that owns
// them, across every group. Telegram poll answers only carry the poll id, so
// this is the one piece of process-wide state needed to route them.
package pollindex

import (
	"errors"

	"gorm.io/gorm"
)

var ErrUnknownPoll = errors.New("unknown poll")

type Route struct {
	ID       uint   `gorm:"primarykey"`
	TgPollID string `gorm:"uniqueIndex"`
	TgChatID int64
}

func (Route) TableName() string {
	return "polls"
}

type Index struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Index, error) {
	if err := db.AutoMigrate(&Route{}); err != nil {
		return nil, err
	}

	return &Index{db: db}, nil
}

// Store records the owning chat for a freshly issued poll id. Routes are
// never pruned: answers to long-closed polls still resolve and get rejected
// downstream instead of crashing the dispatch.
func (i *Index) Store(tgPollId string, tgChatId int64) error {
	return i.db.Create(&Route{TgPollID: tgPollId, TgChatID: tgChatId}).Error
}

// Lookup resolves a poll id to its chat, or ErrUnknownPoll. Unknown ids are
// expected noise from foreign chats and should be dropped by the caller.
func (i *Index) Lookup(tgPollId string) (int64, error) {
	var route Route
	err := i.db.Where("tg_poll_id = ?", tgPollId).First(&route).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUnknownPoll
	}
	if err != nil {
		return 0, err
	}

	return route.TgChatID, nil
}
