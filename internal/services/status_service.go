package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/status"
	"whitebeat/internal/repository"
)

// AuthorFeed groups one author's active statuses for the feed screen.
type AuthorFeed struct {
	AuthorID uuid.UUID
	Statuses []StatusEntry
}

// StatusEntry is the viewer-relative read model of a single status.
type StatusEntry struct {
	Status    status.Status
	HasViewed bool
	ViewCount int64
}

type StatusService struct {
	repo     repository.StatusRepository
	userRepo repository.UserRepository
	audit    *AuditPublisher
	now      func() time.Time
}

func NewStatusService(repo repository.StatusRepository, userRepo repository.UserRepository, audit *AuditPublisher) *StatusService {
	return &StatusService{repo: repo, userRepo: userRepo, audit: audit, now: time.Now}
}

// WithClock overrides the time source; expiry tests use it.
func (s *StatusService) WithClock(now func() time.Time) *StatusService {
	s.now = now
	return s
}

// Create persists the status with its audience rows. Expiry defaults to
// 24h after creation when not supplied; rows are never mutated afterwards
// except through view attachment.
func (s *StatusService) Create(ctx context.Context, cmd commands.CreateStatusCommand) (status.Status, error) {
	if err := cmd.Validate(); err != nil {
		return status.Status{}, err
	}

	now := s.now()
	st := status.Status{
		ID:              uuid.New(),
		OwnerID:         cmd.OwnerID,
		Type:            cmd.Type,
		Content:         cmd.Content,
		MediaURL:        cmd.MediaURL,
		BackgroundColor: cmd.BackgroundColor,
		Privacy:         cmd.Privacy,
		CreatedAt:       now,
		ExpiresAt:       now.Add(status.DefaultTTL),
	}
	if cmd.ExpiresAt != nil {
		st.ExpiresAt = *cmd.ExpiresAt
	}

	var audience []status.Audience
	if cmd.Privacy == status.PrivacySelected || cmd.Privacy == status.PrivacyExcept {
		kind := status.AudienceVisible
		if cmd.Privacy == status.PrivacyExcept {
			kind = status.AudienceHidden
		}
		for _, userID := range cmd.Audience {
			audience = append(audience, status.Audience{
				StatusID:  st.ID,
				UserID:    userID,
				Kind:      kind,
				CreatedAt: now,
			})
		}
	}

	if err := s.repo.Create(ctx, &st, audience); err != nil {
		return status.Status{}, err
	}
	s.audit.Record(ctx, cmd.OwnerID, "status.created", "status", st.ID.String(), map[string]interface{}{"privacy": string(cmd.Privacy)})

	created, err := s.repo.GetByID(ctx, st.ID)
	if err != nil {
		return status.Status{}, err
	}
	return created, nil
}

// FeedFor returns active statuses of other users, grouped by author, with
// the privacy filter applied per status. Filtered statuses are omitted
// entirely.
func (s *StatusService) FeedFor(ctx context.Context, viewerID uuid.UUID) ([]AuthorFeed, error) {
	candidates, err := s.repo.ListActive(ctx, viewerID, s.now())
	if err != nil {
		return nil, err
	}

	var feed []AuthorFeed
	for _, st := range candidates {
		visible, err := s.visibleTo(ctx, st, viewerID)
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}
		entry := newStatusEntry(st, viewerID)
		if len(feed) > 0 && feed[len(feed)-1].AuthorID == st.OwnerID {
			feed[len(feed)-1].Statuses = append(feed[len(feed)-1].Statuses, entry)
			continue
		}
		feed = append(feed, AuthorFeed{AuthorID: st.OwnerID, Statuses: []StatusEntry{entry}})
	}
	return feed, nil
}

// MyStatuses is the owner's self accessor (the owner is excluded from the
// regular feed query).
func (s *StatusService) MyStatuses(ctx context.Context, ownerID uuid.UUID) ([]StatusEntry, error) {
	owned, err := s.repo.ListOwned(ctx, ownerID, s.now())
	if err != nil {
		return nil, err
	}
	entries := make([]StatusEntry, 0, len(owned))
	for _, st := range owned {
		entries = append(entries, newStatusEntry(st, ownerID))
	}
	return entries, nil
}

// View records the (status, viewer) pair idempotently and returns the
// current total view count either way.
func (s *StatusService) View(ctx context.Context, cmd commands.ViewStatusCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	st, err := s.repo.GetByID(ctx, cmd.StatusID)
	if err != nil {
		return 0, err
	}

	if st.OwnerID != cmd.ViewerID {
		v := status.View{StatusID: cmd.StatusID, ViewerID: cmd.ViewerID, ViewedAt: s.now()}
		if err := s.repo.UpsertView(ctx, &v); err != nil {
			return 0, err
		}
		s.audit.Record(ctx, cmd.ViewerID, "status.viewed", "status", st.ID.String(), nil)
	}
	return s.repo.CountViews(ctx, cmd.StatusID)
}

// PurgeExpired reclaims storage for statuses past their window by more
// than the retention slack. Feeds never depend on it.
func (s *StatusService) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.PurgeExpired(ctx, s.now().Add(-retention))
}

func (s *StatusService) visibleTo(ctx context.Context, st status.Status, viewerID uuid.UUID) (bool, error) {
	switch st.Privacy {
	case status.PrivacyEveryone:
		return true, nil
	case status.PrivacyContacts:
		return s.userRepo.IsVisibleContact(ctx, st.OwnerID, viewerID)
	case status.PrivacySelected:
		for _, a := range st.Audience {
			if a.Kind == status.AudienceVisible && a.UserID == viewerID {
				return true, nil
			}
		}
		return false, nil
	case status.PrivacyExcept:
		for _, a := range st.Audience {
			if a.Kind == status.AudienceHidden && a.UserID == viewerID {
				return false, nil
			}
		}
		return true, nil
	}
	return false, nil
}

func newStatusEntry(st status.Status, viewerID uuid.UUID) StatusEntry {
	hasViewed := false
	for _, v := range st.Views {
		if v.ViewerID == viewerID {
			hasViewed = true
			break
		}
	}
	return StatusEntry{
		Status:    st,
		HasViewed: hasViewed,
		ViewCount: int64(len(st.Views)),
	}
}
