package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Each group owns its own sqlite file under the data path, named after the
// chat id. A group must be created before it can be fetched. The routing
// store (polls.db) is shared by every group.

var ErrGroupNotFound = errors.New("group does not exist")
var ErrGroupExists = errors.New("group already exists")

var locker sync.Mutex
var groupConns = make(map[int64]*gorm.DB)
var indexConn *gorm.DB

func Get(chatId int64) (*gorm.DB, error) {
	locker.Lock()
	defer locker.Unlock()

	if db, exists := groupConns[chatId]; exists {
		return db, nil
	}

	path := groupPath(chatId)
	if _, err := os.Stat(path); err != nil {
		return nil, ErrGroupNotFound
	}

	db, err := load(path)
	if err != nil {
		return nil, err
	}

	groupConns[chatId] = db
	return db, nil
}

func Create(chatId int64) (*gorm.DB, error) {
	locker.Lock()
	defer locker.Unlock()

	path := groupPath(chatId)
	if _, err := os.Stat(path); err == nil {
		return nil, ErrGroupExists
	}

	if err := os.MkdirAll(dataPath(), 0755); err != nil {
		return nil, err
	}

	db, err := load(path)
	if err != nil {
		return nil, err
	}

	groupConns[chatId] = db
	return db, nil
}

// Index returns the process-wide store backing the poll routing table.
func Index() (*gorm.DB, error) {
	locker.Lock()
	defer locker.Unlock()

	var err error
	if indexConn == nil {
		if err = os.MkdirAll(dataPath(), 0755); err != nil {
			return nil, err
		}
		indexConn, err = load(filepath.Join(dataPath(), "polls.db"))
	}

	return indexConn, err
}

func Close() {
	locker.Lock()
	defer locker.Unlock()

	for _, db := range groupConns {
		closeConn(db)
	}
	groupConns = make(map[int64]*gorm.DB)

	closeConn(indexConn)
	indexConn = nil
}

func dataPath() string {
	path := viper.GetString("data.path")
	if path == "" {
		path = "data"
	}
	return path
}

func groupPath(chatId int64) string {
	return filepath.Join(dataPath(), fmt.Sprintf("%d.db", chatId))
}

func load(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

func closeConn(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDb, err := db.DB(); err == nil {
		_ = sqlDb.Close()
	}
}
