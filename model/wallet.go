package model

import (
	"slices"
	"strings"
)

// Wallet is an immutable snapshot of a named collection of coins and activities. WithCoin and
// WithActivity build a new snapshot; the receiver and any slices or maps it handed out stay untouched.
//
// A snapshot remembers what changed since it was loaded and the status each coin had at load time.
// Stores persist only the changes, and only over a coin whose stored status still matches the loaded
// one, so two operations on the same wallet never overwrite each other's coin.
type Wallet struct {
	name       string
	network    string
	coins      map[string]Coin
	activities []Activity

	changed map[string]struct{}
	loaded  map[string]CoinStatus
	base    int
}

func NewWallet(name string, network string, coins []Coin, activities []Activity) *Wallet {
	w := &Wallet{
		name:       name,
		network:    network,
		coins:      make(map[string]Coin, len(coins)),
		activities: slices.Clone(activities),
		changed:    make(map[string]struct{}),
		loaded:     make(map[string]CoinStatus, len(coins)),
		base:       len(activities),
	}

	for _, c := range coins {
		w.coins[c.StatechainID] = c
		w.loaded[c.StatechainID] = c.Status
	}

	return w
}

func (w *Wallet) Name() string {
	return w.name
}

func (w *Wallet) Network() string {
	return w.network
}

// Coin looks a coin up by statechain id.
func (w *Wallet) Coin(statechainID string) (Coin, bool) {
	c, ok := w.coins[statechainID]
	return c, ok
}

// Coins returns the coins ordered by statechain id.
func (w *Wallet) Coins() []Coin {
	coins := make([]Coin, 0, len(w.coins))
	for _, c := range w.coins {
		coins = append(coins, c)
	}

	slices.SortFunc(coins, func(a, b Coin) int {
		return strings.Compare(a.StatechainID, b.StatechainID)
	})

	return coins
}

// Activities returns a copy of the activities, oldest first.
func (w *Wallet) Activities() []Activity {
	return slices.Clone(w.activities)
}

func (w *Wallet) ActivityCount() int {
	return len(w.activities)
}

// WithCoin returns a snapshot in which coin replaces the coin with the same statechain id, or is added.
func (w *Wallet) WithCoin(coin Coin) *Wallet {
	next := w.clone()
	next.coins[coin.StatechainID] = coin
	next.changed[coin.StatechainID] = struct{}{}

	return next
}

// WithActivity returns a snapshot with activity appended.
func (w *Wallet) WithActivity(activity Activity) *Wallet {
	next := w.clone()
	next.activities = append(next.activities, activity)

	return next
}

func (w *Wallet) clone() *Wallet {
	next := &Wallet{
		name:       w.name,
		network:    w.network,
		coins:      make(map[string]Coin, len(w.coins)+1),
		activities: make([]Activity, len(w.activities), len(w.activities)+1),
		changed:    make(map[string]struct{}, len(w.changed)+1),
		loaded:     w.loaded,
		base:       w.base,
	}

	for k, v := range w.coins {
		next.coins[k] = v
	}

	for k := range w.changed {
		next.changed[k] = struct{}{}
	}

	copy(next.activities, w.activities)

	return next
}

// ChangedCoins returns the coins set through WithCoin since the snapshot was loaded, ordered by id.
func (w *Wallet) ChangedCoins() []Coin {
	coins := make([]Coin, 0, len(w.changed))
	for id := range w.changed {
		coins = append(coins, w.coins[id])
	}

	slices.SortFunc(coins, func(a, b Coin) int {
		return strings.Compare(a.StatechainID, b.StatechainID)
	})

	return coins
}

// LoadedStatus returns the status the coin had when the snapshot was loaded. ok is false for a coin
// added through WithCoin.
func (w *Wallet) LoadedStatus(statechainID string) (status CoinStatus, ok bool) {
	status, ok = w.loaded[statechainID]
	return status, ok
}

// NewActivities returns the activities appended through WithActivity since the snapshot was loaded.
func (w *Wallet) NewActivities() []Activity {
	return slices.Clone(w.activities[w.base:])
}

// HasChanges reports whether the snapshot differs from the state it was loaded from.
func (w *Wallet) HasChanges() bool {
	return len(w.changed) > 0 || len(w.activities) > w.base
}
