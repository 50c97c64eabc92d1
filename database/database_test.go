package database

import (
	"errors"
	"testing"

	"github.com/spf13/viper"
)

func setup(t *testing.T) {
	t.Helper()

	viper.Set("data.path", t.TempDir())
	t.Cleanup(func() {
		Close()
		viper.Set("data.path", "")
	})
}

func Test_CreateAndGet(t *testing.T) {
	setup(t)

	if _, err := Get(1); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("err = %v, want ErrGroupNotFound", err)
	}

	db, err := Create(1)
	if err != nil {
		t.Fatalf("create failed: %s", err)
	}
	if db == nil {
		t.Fatal("create returned no connection")
	}

	t.Run("second create conflicts", func(t *testing.T) {
		if _, err := Create(1); !errors.Is(err, ErrGroupExists) {
			t.Errorf("err = %v, want ErrGroupExists", err)
		}
	})

	t.Run("get returns the cached connection", func(t *testing.T) {
		got, err := Get(1)
		if err != nil {
			t.Fatalf("get failed: %s", err)
		}
		if got != db {
			t.Error("get should reuse the connection opened at create")
		}
	})

	t.Run("groups do not share stores", func(t *testing.T) {
		other, err := Create(2)
		if err != nil {
			t.Fatalf("create failed: %s", err)
		}
		if other == db {
			t.Error("each group must own its own store")
		}
	})
}

func Test_Index(t *testing.T) {
	setup(t)

	db, err := Index()
	if err != nil {
		t.Fatalf("index failed: %s", err)
	}

	again, err := Index()
	if err != nil {
		t.Fatalf("index failed: %s", err)
	}
	if again != db {
		t.Error("index store should be opened once")
	}
}
