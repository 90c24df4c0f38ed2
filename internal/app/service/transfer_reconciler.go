package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

// isoMillis matches the ISO-8601 form blockTimestamp values arrive in.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// TransferReconcilerImpl implements port.TransferReconciler.
type TransferReconcilerImpl struct {
	source port.TransferSource
	logger port.Logger
	now    func() time.Time
}

// NewTransferReconciler creates a new instance of TransferReconcilerImpl.
func NewTransferReconciler(source port.TransferSource, l port.Logger) *TransferReconcilerImpl {
	return &TransferReconcilerImpl{
		source: source,
		logger: l.With("component", "TransferReconciler"),
		now:    time.Now,
	}
}

// Reconcile fetches inbound and outbound transfers together, merges them inbound first,
// collapses records sharing a hash and returns the newest limit records.
func (r *TransferReconcilerImpl) Reconcile(ctx context.Context, walletAddress string, limit int) ([]entity.TransferRecord, error) {
	wallet, err := entity.NormalizeAddress(walletAddress)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be a positive integer, got %d", entity.ErrInvalidInput, limit)
	}

	// Both fetches run to completion; neither cancels the other.
	var (
		inbound, outbound []entity.RawTransfer
		eg                errgroup.Group
	)
	eg.Go(func() error {
		v, err := r.source.GetAssetTransfers(ctx, wallet, entity.RoleRecipient, limit)
		if err != nil {
			return fmt.Errorf("inbound transfers: %w", err)
		}
		inbound = v
		return nil
	})
	eg.Go(func() error {
		v, err := r.source.GetAssetTransfers(ctx, wallet, entity.RoleSender, limit)
		if err != nil {
			return fmt.Errorf("outbound transfers: %w", err)
		}
		outbound = v
		return nil
	})
	if err := eg.Wait(); err != nil {
		r.logger.Error("Failed to fetch transfers", "wallet", wallet, "error", err)
		return nil, err
	}

	merged := make([]entity.RawTransfer, 0, len(inbound)+len(outbound))
	merged = append(merged, inbound...)
	merged = append(merged, outbound...)
	deduped := DedupByHash(merged)

	now := r.now().UTC()
	type keyed struct {
		at  time.Time
		rec entity.TransferRecord
	}
	rows := make([]keyed, 0, len(deduped))
	for _, t := range deduped {
		at, ok := parseBlockTimestamp(t.BlockTimestamp)
		stamp := t.BlockTimestamp
		if !ok {
			at = now
			stamp = now.Format(isoMillis)
		}
		rows = append(rows, keyed{at: at, rec: toTransferRecord(t, wallet, stamp)})
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		return b.at.Compare(a.at)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	records := make([]entity.TransferRecord, len(rows))
	for i, row := range rows {
		records[i] = row.rec
	}
	r.logger.Debug("Reconciled transfers", "wallet", wallet, "inbound", len(inbound), "outbound", len(outbound),
		"unique", len(deduped), "returned", len(records))
	return records, nil
}

// DedupByHash keeps one record per hash. A repeated hash overwrites the earlier record's
// contents in place, so the survivor carries the last occurrence's data at the first
// occurrence's position.
func DedupByHash(transfers []entity.RawTransfer) []entity.RawTransfer {
	pos := make(map[string]int, len(transfers))
	out := make([]entity.RawTransfer, 0, len(transfers))
	for _, t := range transfers {
		if i, ok := pos[t.Hash]; ok {
			out[i] = t
			continue
		}
		pos[t.Hash] = len(out)
		out = append(out, t)
	}
	return out
}

// ClassifyDirection reports incoming when to equals wallet, ignoring case.
func ClassifyDirection(to, wallet string) entity.Direction {
	if to != "" && strings.EqualFold(to, wallet) {
		return entity.DirectionIncoming
	}
	return entity.DirectionOutgoing
}

func toTransferRecord(t entity.RawTransfer, wallet, stamp string) entity.TransferRecord {
	token := t.Asset
	if token == "" {
		token = t.ContractAddress
	}
	if token == "" {
		token = entity.NativeAssetSymbol
	}
	var value float64
	if t.Value != nil {
		value = *t.Value
	}
	return entity.TransferRecord{
		Hash:      t.Hash,
		Timestamp: stamp,
		Token:     token,
		Direction: ClassifyDirection(t.To, wallet),
		Value:     value,
		From:      t.From,
		To:        t.To,
		Category:  t.Category,
	}
}

func parseBlockTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
