// Package memory is a map backed wallet store used by tests and by the "memory://" store URL.
package memory

import (
	"context"
	"net/http"
	"slices"
	"sort"
	"sync"

	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
)

type walletRecord struct {
	network    string
	coins      map[string]model.Coin
	activities []model.Activity
}

type Memory struct {
	mu      sync.RWMutex
	wallets map[string]*walletRecord
	backups map[string][]model.BackupTx
}

func New() *Memory {
	return &Memory{
		wallets: make(map[string]*walletRecord),
		backups: make(map[string][]model.BackupTx),
	}
}

func (m *Memory) Health(_ context.Context, _ bool) (int, string, error) {
	return http.StatusOK, "Memory Store available", nil
}

func (m *Memory) CreateWallet(_ context.Context, wallet *model.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.wallets[wallet.Name()]; ok {
		return errors.NewWalletExistsError("wallet %s already exists", wallet.Name())
	}

	record := &walletRecord{
		network:    wallet.Network(),
		coins:      make(map[string]model.Coin),
		activities: wallet.Activities(),
	}

	for _, c := range wallet.Coins() {
		record.coins[c.StatechainID] = c
	}

	m.wallets[wallet.Name()] = record

	return nil
}

func (m *Memory) GetWallet(_ context.Context, name string) (*model.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.wallets[name]
	if !ok {
		return nil, errors.NewWalletNotFoundError("wallet %s not found", name)
	}

	coins := make([]model.Coin, 0, len(record.coins))
	for _, c := range record.coins {
		coins = append(coins, c)
	}

	return model.NewWallet(name, record.network, coins, record.activities), nil
}

func (m *Memory) ListWallets(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.wallets))
	for name := range m.wallets {
		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}

func (m *Memory) SaveWallet(_ context.Context, wallet *model.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.wallets[wallet.Name()]
	if !ok {
		return errors.NewWalletNotFoundError("wallet %s not found", wallet.Name())
	}

	changed := wallet.ChangedCoins()

	for _, c := range changed {
		stored, exists := record.coins[c.StatechainID]
		loaded, wasLoaded := wallet.LoadedStatus(c.StatechainID)

		if exists != wasLoaded || (exists && stored.Status != loaded) {
			return errors.NewInvalidCoinStateError("coin %s of wallet %s was changed since it was loaded", c.StatechainID, wallet.Name())
		}
	}

	for _, c := range changed {
		record.coins[c.StatechainID] = c
	}

	record.activities = append(record.activities, wallet.NewActivities()...)

	return nil
}

func (m *Memory) GetBackupTxs(_ context.Context, statechainID string) ([]model.BackupTx, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.backups[statechainID]), nil
}

func (m *Memory) AppendBackupTx(_ context.Context, statechainID string, tx model.BackupTx) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.backups[statechainID]

	count, err := safeconversion.IntToUint32(len(existing))
	if err != nil {
		return errors.NewInvalidSequenceError("statechain %s has too many backup transactions", statechainID, err)
	}

	if tx.TxN != count+1 {
		return errors.NewInvalidSequenceError("backup tx %d for statechain %s does not follow %d", tx.TxN, statechainID, len(existing))
	}

	m.backups[statechainID] = append(existing, tx)

	return nil
}

func (m *Memory) AppendActivity(_ context.Context, walletName string, activity model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.wallets[walletName]
	if !ok {
		return errors.NewWalletNotFoundError("wallet %s not found", walletName)
	}

	record.activities = append(record.activities, activity)

	return nil
}

func (m *Memory) GetActivities(_ context.Context, walletName string, offset int, limit int) ([]model.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.wallets[walletName]
	if !ok {
		return nil, errors.NewWalletNotFoundError("wallet %s not found", walletName)
	}

	if offset < 0 {
		offset = 0
	}

	if offset >= len(record.activities) {
		return []model.Activity{}, nil
	}

	end := len(record.activities)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return slices.Clone(record.activities[offset:end]), nil
}

func (m *Memory) Close() error {
	return nil
}
