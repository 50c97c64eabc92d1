package ledger

import (
	"errors"
	"testing"
)

// placeAndSelect wires one member's bet and choice in a single step.
func placeAndSelect(t *testing.T, group *Group, tgId int64, tgMessageId int, tgPollId string, amount, optionIndex int) {
	t.Helper()

	if _, err := group.PlaceBet(tgId, tgMessageId, amount); err != nil {
		t.Fatalf("place failed: %s", err)
	}
	if err := group.SelectOption(tgId, tgPollId, optionIndex); err != nil {
		t.Fatalf("select failed: %s", err)
	}
}

func Test_ClosePoll_Example(t *testing.T) {
	group := testGroup(t)
	join(t, group, 1, "Anna")
	join(t, group, 2, "Bruno")
	recordTestPoll(t, group, "poll-1", 10, 2)

	placeAndSelect(t, group, 1, 10, "poll-1", 100, 0)
	placeAndSelect(t, group, 2, 10, "poll-1", 300, 1)

	results, status, err := group.ClosePoll("poll-1", 0)
	if err != nil {
		t.Fatalf("close failed: %s", err)
	}
	if status != SettleOK {
		t.Fatalf("status = %v, want SettleOK", status)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	// winnable pool is Bruno's 300, Anna holds the whole correct stake
	byName := make(map[string]BetResult)
	for _, res := range results {
		byName[res.MemberName] = res
	}
	if res := byName["Anna"]; res.Win != 300 || res.Tokens != 10300 {
		t.Errorf("Anna = %+v, want win 300 tokens 10300", res)
	}
	if res := byName["Bruno"]; res.Win != -300 || res.Tokens != 9700 {
		t.Errorf("Bruno = %+v, want win -300 tokens 9700", res)
	}

	if got := balance(t, group, 1); got != 10300 {
		t.Errorf("Anna balance = %d, want 10300", got)
	}
	if got := balance(t, group, 2); got != 9700 {
		t.Errorf("Bruno balance = %d, want 9700", got)
	}

	t.Run("re-close is a settled no-op", func(t *testing.T) {
		results, status, err := group.ClosePoll("poll-1", 0)
		if err != nil {
			t.Fatalf("close failed: %s", err)
		}
		if status != SettleNoBets {
			t.Errorf("status = %v, want SettleNoBets", status)
		}
		if len(results) != 0 {
			t.Errorf("results = %v, want none", results)
		}
		if got := balance(t, group, 1); got != 10300 {
			t.Errorf("balance moved on re-close: %d", got)
		}
	})
}

func Test_ClosePoll_UnknownPoll(t *testing.T) {
	group := testGroup(t)

	if _, _, err := group.ClosePoll("missing", 0); !errors.Is(err, ErrNoSuchPoll) {
		t.Errorf("err = %v, want ErrNoSuchPoll", err)
	}
}

func Test_ClosePoll_NoBets(t *testing.T) {
	group := testGroup(t)
	recordTestPoll(t, group, "poll-1", 10, 2)

	results, status, err := group.ClosePoll("poll-1", 0)
	if err != nil {
		t.Fatalf("close failed: %s", err)
	}
	if status != SettleNoBets {
		t.Errorf("status = %v, want SettleNoBets", status)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
}

func Test_ClosePoll_UnselectedBetForfeitsEligibility(t *testing.T) {
	group := testGroup(t)
	join(t, group, 1, "Anna")
	recordTestPoll(t, group, "poll-1", 10, 2)

	// a bet with no chosen option neither wins nor loses
	if _, err := group.PlaceBet(1, 10, 500); err != nil {
		t.Fatalf("place failed: %s", err)
	}

	results, status, err := group.ClosePoll("poll-1", 0)
	if err != nil {
		t.Fatalf("close failed: %s", err)
	}
	if status != SettleNoBets {
		t.Errorf("status = %v, want SettleNoBets", status)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
	if got := balance(t, group, 1); got != DefaultTokens {
		t.Errorf("balance = %d, want %d", got, DefaultTokens)
	}

	var bet Bet
	if err := group.db.First(&bet).Error; err != nil {
		t.Fatalf("cannot read bet: %s", err)
	}
	if bet.Open {
		t.Error("bet should be settled even without a chosen option")
	}
}

func Test_ClosePoll_NothingToWin(t *testing.T) {
	group := testGroup(t)
	join(t, group, 1, "Anna")
	recordTestPoll(t, group, "poll-1", 10, 2)

	// single bettor on the correct side, no losers to fund the pool
	placeAndSelect(t, group, 1, 10, "poll-1", 100, 0)

	results, status, err := group.ClosePoll("poll-1", 0)
	if err != nil {
		t.Fatalf("close failed: %s", err)
	}
	if status != SettleNothingToWin {
		t.Errorf("status = %v, want SettleNothingToWin", status)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
	if got := balance(t, group, 1); got != DefaultTokens {
		t.Errorf("balance = %d, want %d", got, DefaultTokens)
	}
}

func Test_ClosePoll_NoWinners(t *testing.T) {
	group := testGroup(t)
	join(t, group, 1, "Anna")
	join(t, group, 2, "Bruno")
	recordTestPoll(t, group, "poll-1", 10, 3)

	placeAndSelect(t, group, 1, 10, "poll-1", 100, 1)
	placeAndSelect(t, group, 2, 10, "poll-1", 200, 2)

	results, status, err := group.ClosePoll("poll-1", 0)
	if err != nil {
		t.Fatalf("close failed: %s", err)
	}
	if status != SettleOK {
		t.Fatalf("status = %v, want SettleOK", status)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if got := balance(t, group, 1); got != DefaultTokens-100 {
		t.Errorf("Anna balance = %d, want %d", got, DefaultTokens-100)
	}
	if got := balance(t, group, 2); got != DefaultTokens-200 {
		t.Errorf("Bruno balance = %d, want %d", got, DefaultTokens-200)
	}
}

func Test_ClosePoll_FlooringKeepsLeftoverBounded(t *testing.T) {
	group := testGroup(t)
	join(t, group, 1, "Anna")
	join(t, group, 2, "Bruno")
	join(t, group, 3, "Carla")
	join(t, group, 4, "Dario")
	recordTestPoll(t, group, "poll-1", 10, 2)

	// three even winners splitting a pool of 1000: floor(1000/3) each
	placeAndSelect(t, group, 1, 10, "poll-1", 100, 0)
	placeAndSelect(t, group, 2, 10, "poll-1", 100, 0)
	placeAndSelect(t, group, 3, 10, "poll-1", 100, 0)
	placeAndSelect(t, group, 4, 10, "poll-1", 1000, 1)

	results, status, err := group.ClosePoll("poll-1", 0)
	if err != nil {
		t.Fatalf("close failed: %s", err)
	}
	if status != SettleOK {
		t.Fatalf("status = %v, want SettleOK", status)
	}

	winners := 0
	deltaSum := 0
	for _, res := range results {
		deltaSum += res.Win
		if res.Win > 0 {
			winners++
			if res.Win != 333 {
				t.Errorf("%s won %d, want 333", res.MemberName, res.Win)
			}
		}
	}
	if winners != 3 {
		t.Fatalf("got %d winners, want 3", winners)
	}

	leftover := -deltaSum
	if leftover < 0 || leftover >= winners {
		t.Errorf("flooring leftover = %d, want within [0, %d)", leftover, winners)
	}
}

func Test_ClosePoll_ProportionalSplit(t *testing.T) {
	group := testGroup(t)
	join(t, group, 1, "Anna")
	join(t, group, 2, "Bruno")
	join(t, group, 3, "Carla")
	recordTestPoll(t, group, "poll-1", 10, 2)

	placeAndSelect(t, group, 1, 10, "poll-1", 100, 0)
	placeAndSelect(t, group, 2, 10, "poll-1", 300, 0)
	placeAndSelect(t, group, 3, 10, "poll-1", 200, 1)

	results, _, err := group.ClosePoll("poll-1", 0)
	if err != nil {
		t.Fatalf("close failed: %s", err)
	}

	byName := make(map[string]BetResult)
	for _, res := range results {
		byName[res.MemberName] = res
	}

	// pool of 200 split 1:3 between the correct stakes
	if res := byName["Anna"]; res.Win != 50 {
		t.Errorf("Anna won %d, want 50", res.Win)
	}
	if res := byName["Bruno"]; res.Win != 150 {
		t.Errorf("Bruno won %d, want 150", res.Win)
	}
	if res := byName["Carla"]; res.Win != -200 {
		t.Errorf("Carla won %d, want -200", res.Win)
	}

	deltaSum := 0
	for _, res := range results {
		deltaSum += res.Win
	}
	if deltaSum != 0 {
		t.Errorf("settlement is not zero-sum: %d", deltaSum)
	}
}
