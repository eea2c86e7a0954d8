// internal/service/membership_reconciliation.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
)

// MembershipReconciler periodically approves pending company memberships
// whose user email domain is one of the company's domains.
type MembershipReconciler struct {
	membership   repository.MembershipRepositoryIface
	syncInterval time.Duration
	batchSize    int
	dryRun       bool // If true, don't make changes, just log
	logger       *slog.Logger
	stopChan     chan struct{}
	stoppedChan  chan struct{}
	mu           sync.Mutex
	started      bool
	stopOnce     sync.Once
}

// NewMembershipReconciler creates a new reconciler
func NewMembershipReconciler(
	membership repository.MembershipRepositoryIface,
	syncInterval time.Duration,
	logger *slog.Logger,
) *MembershipReconciler {
	if syncInterval == 0 {
		syncInterval = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MembershipReconciler{
		membership:   membership,
		syncInterval: syncInterval,
		batchSize:    100,
		logger:       logger,
		stopChan:     make(chan struct{}),
		stoppedChan:  make(chan struct{}),
	}
}

// Start begins the periodic reconciliation process. Calls after the first,
// or after Stop, do nothing.
func (s *MembershipReconciler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	select {
	case <-s.stopChan:
		return
	default:
	}

	s.started = true
	go s.run()
}

func (s *MembershipReconciler) run() {
	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()
	defer close(s.stoppedChan)

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := s.ReconcilePending(ctx); err != nil {
				s.logger.Error("membership reconciliation failed", "error", err)
			}
			cancel()
		case <-s.stopChan:
			return
		}
	}
}

// Stop halts the reconciliation process and waits for a running pass to
// finish. It is safe to call more than once, or without Start.
func (s *MembershipReconciler) Stop() {
	s.mu.Lock()
	s.stopOnce.Do(func() { close(s.stopChan) })
	started := s.started
	s.mu.Unlock()

	if started {
		<-s.stoppedChan
	}
}

// SetBatchSize sets the number of memberships examined per pass
func (s *MembershipReconciler) SetBatchSize(size int) {
	if size > 0 {
		s.batchSize = size
	}
}

// SetDryRun sets whether to actually make changes or just log what would be done
func (s *MembershipReconciler) SetDryRun(dryRun bool) {
	s.dryRun = dryRun
}

// ReconcilePending runs one pass and returns how many memberships were (or in
// dry-run mode would have been) approved.
func (s *MembershipReconciler) ReconcilePending(ctx context.Context) (int, error) {
	pending, err := s.membership.FindPendingCompanyMembers(ctx, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetching pending memberships: %w", err)
	}

	s.logger.Info("reconciling company memberships", "count", len(pending), "dry_run", s.dryRun)

	approved := 0
	for _, member := range pending {
		if !domainAdmits(member) {
			continue
		}

		if s.dryRun {
			s.logger.Info("would approve membership (dry run)",
				"membership_id", member.ID,
				"company_id", member.CompanyID,
				"user_id", member.UserID,
			)
			approved++
			continue
		}

		if err := s.membership.ApproveCompanyMember(ctx, member.ID); err != nil {
			s.logger.Error("failed to approve membership",
				"membership_id", member.ID,
				"error", err,
			)
			// Continue with other memberships
			continue
		}
		approved++
		s.logger.Info("approved membership",
			"membership_id", member.ID,
			"company_id", member.CompanyID,
			"user_id", member.UserID,
		)

		select {
		case <-ctx.Done():
			return approved, ctx.Err()
		default:
		}
	}

	return approved, nil
}

func domainAdmits(member model.UsersToCompany) bool {
	if member.User == nil || member.Company == nil {
		return false
	}

	at := strings.LastIndexByte(member.User.Email, '@')
	if at < 0 {
		return false
	}
	domain := strings.ToLower(member.User.Email[at+1:])
	return domain != "" && slices.Contains(normalizeDomains(member.Company.Domains), domain)
}
