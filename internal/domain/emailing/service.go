package emailing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"feedback360-go/pkg/logger"
)

const (
	invalidateRetries = 3
	invalidateBackoff = 50 * time.Millisecond
)

func defaultBackoff() retry.Backoff {
	return retry.WithMaxRetries(invalidateRetries, retry.NewExponential(invalidateBackoff))
}

// Service serves the emailing list through a per-tenant cache. Mutations of
// relationships and assignments call Invalidate before they report success.
type Service struct {
	repo  Repository
	cache Cache
	log   logger.Logger
	// backoff builds the retry schedule for one Invalidate call.
	backoff func() retry.Backoff

	mu sync.Mutex
	// bypass holds tenants whose last invalidation failed. Their cached entry
	// may be stale, so reads skip the cache until an invalidation succeeds.
	bypass map[string]struct{}
}

func NewService(repo Repository, cache Cache, log logger.Logger) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		log:     log,
		backoff: defaultBackoff,
		bypass:  make(map[string]struct{}),
	}
}

func (s *Service) Get(ctx context.Context, tenantID string) ([]Item, error) {
	if s.bypassed(tenantID) && !s.retryInvalidate(ctx, tenantID) {
		recordCacheEvent(eventBypass)
		return s.build(ctx, tenantID)
	}

	items, ok, err := s.cache.Get(ctx, tenantID)
	if err != nil {
		recordCacheEvent(eventError)
		s.log.Warn("emailing.get: cache read failed", "tenant_id", tenantID, "error", err)
		return s.build(ctx, tenantID)
	}
	if ok {
		recordCacheEvent(eventHit)
		return items, nil
	}

	recordCacheEvent(eventMiss)
	generation, err := s.cache.Generation(ctx, tenantID)
	if err != nil {
		s.log.Warn("emailing.get: cache generation read failed", "tenant_id", tenantID, "error", err)
		return s.build(ctx, tenantID)
	}

	items, err = s.build(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, tenantID, generation, items); err != nil {
		s.log.Warn("emailing.get: cache write failed", "tenant_id", tenantID, "error", err)
	}
	return items, nil
}

// Invalidate drops the tenant's cached list, retrying a failing cache a few
// times. When the drop still cannot be confirmed the tenant is served
// uncached by this process and the error wraps ErrInvalidationFailed, since
// other instances sharing the cache may keep serving the stale entry.
func (s *Service) Invalidate(ctx context.Context, tenantID string) error {
	ctx = context.WithoutCancel(ctx)
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		if err := s.cache.Invalidate(ctx, tenantID); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		recordCacheEvent(eventInvalidateError)
		s.log.InternalError("emailing.invalidate: cache invalidation failed", err, "tenant_id", tenantID)
		s.setBypass(tenantID, true)
		return fmt.Errorf("%w: %v", ErrInvalidationFailed, err)
	}
	recordCacheEvent(eventInvalidate)
	s.setBypass(tenantID, false)
	return nil
}

// Clear drops every tenant's cached list.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.bypass = make(map[string]struct{})
	s.mu.Unlock()
	return nil
}

func (s *Service) build(ctx context.Context, tenantID string) ([]Item, error) {
	started := time.Now()
	defer func() {
		buildDuration.Observe(time.Since(started).Seconds())
	}()

	rows, err := s.repo.ListAssignmentRows(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return BuildItems(rows), nil
}

func (s *Service) retryInvalidate(ctx context.Context, tenantID string) bool {
	if err := s.cache.Invalidate(ctx, tenantID); err != nil {
		return false
	}
	s.setBypass(tenantID, false)
	return true
}

func (s *Service) bypassed(tenantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bypass[tenantID]
	return ok
}

func (s *Service) setBypass(tenantID string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.bypass[tenantID] = struct{}{}
		return
	}
	delete(s.bypass, tenantID)
}

type groupKey struct {
	surveyID    string
	evaluatorID string
}

// BuildItems groups assignment rows by (survey, evaluator) and keeps the
// groups that still have outstanding work.
func BuildItems(rows []AssignmentRow) []Item {
	groups := make(map[groupKey]*Item)
	order := make([]groupKey, 0)

	for _, row := range rows {
		key := groupKey{surveyID: row.SurveyID, evaluatorID: row.EvaluatorID}
		item, ok := groups[key]
		if !ok {
			item = &Item{
				SurveyID:            row.SurveyID,
				SurveyTitle:         row.SurveyTitle,
				EvaluatorID:         row.EvaluatorID,
				EvaluatorName:       row.EvaluatorName,
				EvaluatorEmail:      row.EvaluatorEmail,
				OutstandingSubjects: make([]string, 0),
				AssignmentIDs:       make([]string, 0),
			}
			groups[key] = item
			order = append(order, key)
		}

		item.TotalAssigned++
		if row.Completed {
			item.CompletedCount++
		} else {
			item.OutstandingCount++
			item.OutstandingSubjects = append(item.OutstandingSubjects, row.SubjectName)
			item.AssignmentIDs = append(item.AssignmentIDs, row.AssignmentID)
		}

		item.LastAssignmentEmailSentAt = latest(item.LastAssignmentEmailSentAt, row.AssignmentEmailSentAt)
		item.LastReminderSentAt = latest(item.LastReminderSentAt, row.LastReminderSentAt)
		assignedAt := row.AssignedAt
		item.LastAssignedAt = latest(item.LastAssignedAt, &assignedAt)
	}

	items := make([]Item, 0, len(order))
	for _, key := range order {
		item := groups[key]
		if item.OutstandingCount == 0 {
			continue
		}
		items = append(items, *item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SurveyTitle != items[j].SurveyTitle {
			return items[i].SurveyTitle < items[j].SurveyTitle
		}
		if items[i].EvaluatorName != items[j].EvaluatorName {
			return items[i].EvaluatorName < items[j].EvaluatorName
		}
		return items[i].EvaluatorID < items[j].EvaluatorID
	})
	return items
}

func latest(current, candidate *time.Time) *time.Time {
	if candidate == nil || candidate.IsZero() {
		return current
	}
	if current == nil || candidate.After(*current) {
		value := *candidate
		return &value
	}
	return current
}
