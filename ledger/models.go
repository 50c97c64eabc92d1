package ledger

// GroupInfo is the singleton row identifying the group a store belongs to.
type GroupInfo struct {
	ID          uint `gorm:"primarykey"`
	TgID        int64
	Description string
}

func (GroupInfo) TableName() string {
	return "group_info"
}

type Member struct {
	ID     uint  `gorm:"primarykey"`
	TgID   int64 `gorm:"uniqueIndex"`
	Name   string
	Tokens int `gorm:"not null"`
}

type Suggestion struct {
	ID   uint   `gorm:"primarykey"`
	Text string `gorm:"not null"`
}

type Poll struct {
	ID          uint   `gorm:"primarykey"`
	TgPollID    string `gorm:"uniqueIndex"`
	TgMessageID int
	Text        string
	Open        bool
}

type PollOption struct {
	ID      uint `gorm:"primarykey"`
	TgIndex int
	Text    string
	Rating  float64
	PollID  uint `gorm:"index"`
}

// Bet holds a member's wager on one poll. The option reference stays nil
// until the member answers the poll, and a settled bet keeps its row with
// Open flipped off. One bet per member per poll, enforced by bet_idx.
type Bet struct {
	ID           uint `gorm:"primarykey"`
	Amount       int  `gorm:"not null"`
	Open         bool
	MemberID     uint `gorm:"uniqueIndex:bet_idx"`
	PollID       uint `gorm:"uniqueIndex:bet_idx"`
	PollOptionID *uint
}
