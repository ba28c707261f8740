package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"cms-backend/internal/models"
)

// StatsCache is an optional read-through cache for aggregate views. The redis
// implementation degrades to a no-op when the server is unreachable.
type StatsCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// DispatchService reconciles release history scattered across three
// collections of different vintage: dispatch_events (current, complete),
// deliveries (legacy read-only rows, missing customer and location fields)
// and the delivery history embedded on entries themselves. A release written
// today lands in both dispatch_events and the embedded history; the two rows
// share a release id and are collapsed into one unified record, with the
// event row winning because it carries the operator name. The unified
// projection is recomputed per query and never written back.
type DispatchService struct {
	EventRepo    DispatchEventStore
	DeliveryRepo DeliveryStore
	EntryRepo    EntryStore
	Cache        StatsCache // optional
}

func NewDispatchService(eventRepo DispatchEventStore, deliveryRepo DeliveryStore, entryRepo EntryStore) *DispatchService {
	return &DispatchService{
		EventRepo:    eventRepo,
		DeliveryRepo: deliveryRepo,
		EntryRepo:    entryRepo,
	}
}

func (s *DispatchService) SetCache(cache StatsCache) {
	s.Cache = cache
}

const (
	unknownValue = "Unknown"
	missingValue = "N/A"
)

func orUnknown(v string) string {
	if v == "" {
		return unknownValue
	}
	return v
}

func orMissing(v string) string {
	if v == "" {
		return missingValue
	}
	return v
}

// classifyPayment buckets a record by what was collected against what was
// owed at release time.
func classifyPayment(amount, due float64) string {
	switch {
	case amount == 0:
		return models.DispatchPaymentFree
	case due > 0:
		return models.DispatchPaymentPartial
	default:
		return models.DispatchPaymentFull
	}
}

func classifyDispatch(remaining int) string {
	if remaining > 0 {
		return models.DispatchTypePartial
	}
	return models.DispatchTypeFull
}

// GetUnifiedDispatchRecords loads all three sources, normalizes each row into
// the unified shape and applies the filters. Ordering is deterministic:
// newest first, ties broken by source collection then record id, so repeated
// queries over unchanged data return identical sequences.
func (s *DispatchService) GetUnifiedDispatchRecords(ctx context.Context, filters models.DispatchFilters) ([]models.UnifiedDispatchRecord, error) {
	var records []models.UnifiedDispatchRecord

	events, err := s.EventRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	eventReleases := make(map[string]bool, len(events))
	for _, ev := range events {
		if ev.ReleaseID != "" {
			eventReleases[ev.ReleaseID] = true
		}
		records = append(records, models.UnifiedDispatchRecord{
			EntryID:          ev.EntryID,
			CustomerName:     orUnknown(ev.CustomerName),
			CustomerMobile:   orMissing(ev.CustomerMobile),
			LocationName:     orMissing(ev.LocationName),
			OperatorName:     orUnknown(ev.OperatorName),
			DispatchType:     classifyDispatch(ev.RemainingPots),
			PotsDispatched:   ev.PotsDispatched,
			RemainingPots:    ev.RemainingPots,
			PaymentAmount:    ev.PaymentAmount,
			PaymentType:      classifyPayment(ev.PaymentAmount, ev.DueAmount),
			SourceCollection: models.SourceDispatchEvents,
			SourceRecordID:   fmt.Sprintf("de_%d", ev.ID),
			DispatchDate:     ev.DispatchDate,
		})
	}

	deliveries, err := s.DeliveryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range deliveries {
		// Legacy rows know the recipient, not the customer.
		records = append(records, models.UnifiedDispatchRecord{
			EntryID:          d.EntryID,
			CustomerName:     orUnknown(d.RecipientName),
			CustomerMobile:   orMissing(d.RecipientMobile),
			LocationName:     missingValue,
			OperatorName:     orUnknown(d.OperatorName),
			DispatchType:     classifyDispatch(d.RemainingAfter),
			PotsDispatched:   d.Quantity,
			RemainingPots:    d.RemainingAfter,
			PaymentAmount:    d.Amount,
			PaymentType:      classifyPayment(d.Amount, d.DueAmount),
			SourceCollection: models.SourceDeliveries,
			SourceRecordID:   fmt.Sprintf("d_%d", d.ID),
			DispatchDate:     d.CreatedAt,
		})
	}

	entries, err := s.EntryRepo.ListDeliveryHistory(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		for _, tx := range entry.DeliveryHistory {
			// Skip history rows whose release already has an event row.
			if eventReleases[tx.ReleaseID] {
				continue
			}
			records = append(records, models.UnifiedDispatchRecord{
				EntryID:          entry.ID,
				CustomerName:     orUnknown(entry.CustomerName),
				CustomerMobile:   orMissing(entry.CustomerMobile),
				LocationName:     orMissing(entry.LocationName),
				OperatorName:     unknownValue, // embedded history stores actor ids only
				DispatchType:     classifyDispatch(tx.RemainingPotsAfterDelivery),
				PotsDispatched:   tx.PotsDelivered,
				RemainingPots:    tx.RemainingPotsAfterDelivery,
				PaymentAmount:    tx.AmountPaid,
				PaymentType:      classifyPayment(tx.AmountPaid, tx.DueAmount),
				SourceCollection: models.SourceEntryDeliveries,
				SourceRecordID:   tx.ReleaseID,
				DispatchDate:     tx.DeliveredAt,
			})
		}
	}

	filtered := records[:0]
	for _, rec := range records {
		if filters.EntryID != 0 && rec.EntryID != filters.EntryID {
			continue
		}
		if filters.LocationName != "" && !strings.EqualFold(rec.LocationName, filters.LocationName) {
			continue
		}
		if filters.OperatorName != "" && !strings.EqualFold(rec.OperatorName, filters.OperatorName) {
			continue
		}
		if !filters.From.IsZero() && rec.DispatchDate.Before(filters.From) {
			continue
		}
		if !filters.To.IsZero() && rec.DispatchDate.After(filters.To) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if !a.DispatchDate.Equal(b.DispatchDate) {
			return a.DispatchDate.After(b.DispatchDate)
		}
		if a.SourceCollection != b.SourceCollection {
			return a.SourceCollection < b.SourceCollection
		}
		return a.SourceRecordID < b.SourceRecordID
	})

	return filtered, nil
}

// GetUnifiedDispatchStats aggregates the unified records. Results are cached
// per filter combination when a cache is attached; the aggregate is advisory
// and a short staleness window is acceptable.
func (s *DispatchService) GetUnifiedDispatchStats(ctx context.Context, filters models.DispatchFilters) (*models.DispatchStats, error) {
	cacheKey := statsCacheKey(filters)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
			var stats models.DispatchStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	records, err := s.GetUnifiedDispatchRecords(ctx, filters)
	if err != nil {
		return nil, err
	}

	stats := &models.DispatchStats{
		ByOperator: make(map[string]models.OperatorDispatchStats),
	}
	for _, rec := range records {
		stats.TotalDispatches++
		if rec.DispatchType == models.DispatchTypePartial {
			stats.PartialDispatches++
		} else {
			stats.FullDispatches++
		}
		stats.TotalRevenue += rec.PaymentAmount

		op := stats.ByOperator[rec.OperatorName]
		op.Dispatches++
		op.PotsDispatched += rec.PotsDispatched
		op.Revenue += rec.PaymentAmount
		stats.ByOperator[rec.OperatorName] = op
	}
	if stats.TotalDispatches > 0 {
		stats.AverageRevenue = stats.TotalRevenue / float64(stats.TotalDispatches)
	}

	if s.Cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			s.Cache.Set(ctx, cacheKey, string(payload))
		} else {
			log.Printf("[Dispatch] Stats cache marshal failed: %v", err)
		}
	}
	return stats, nil
}

func statsCacheKey(filters models.DispatchFilters) string {
	raw, _ := json.Marshal(filters)
	sum := sha256.Sum256(raw)
	return "dispatch:stats:" + hex.EncodeToString(sum[:8])
}
