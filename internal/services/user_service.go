package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"whitebeat/internal/domain/user"
	"whitebeat/internal/redis"
	"whitebeat/internal/repository"
	wb_errors "whitebeat/pkg/errors"
)

// ProfileUpdate carries the mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	DisplayName     *string
	About           *string
	AvatarURL       *string
	PhotoPrivacy    *user.PrivacyOption
	StatusPrivacy   *user.PrivacyOption
	LastSeenPrivacy *user.PrivacyOption
}

type UserService struct {
	repo     repository.UserRepository
	presence *redis.PresenceStore
	audit    *AuditPublisher
}

func NewUserService(repo repository.UserRepository, presence *redis.PresenceStore, audit *AuditPublisher) *UserService {
	return &UserService{repo: repo, presence: presence, audit: audit}
}

func (s *UserService) Register(ctx context.Context, username, displayName string) (user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return user.User{}, wb_errors.ErrInvalidArgument
	}
	if displayName == "" {
		displayName = username
	}

	u := user.User{
		ID:          uuid.New(),
		Username:    username,
		DisplayName: displayName,
	}
	if err := s.repo.Create(ctx, &u); err != nil {
		return user.User{}, err
	}
	s.audit.Record(ctx, u.ID, "user.registered", "user", u.ID.String(), nil)
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (user.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if upd.DisplayName != nil {
		if strings.TrimSpace(*upd.DisplayName) == "" {
			return user.User{}, wb_errors.ErrInvalidArgument
		}
		u.DisplayName = *upd.DisplayName
	}
	if upd.About != nil {
		u.About = upd.About
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = upd.AvatarURL
	}
	for _, pair := range []struct {
		src *user.PrivacyOption
		dst *user.PrivacyOption
	}{
		{upd.PhotoPrivacy, &u.PhotoPrivacy},
		{upd.StatusPrivacy, &u.StatusPrivacy},
		{upd.LastSeenPrivacy, &u.LastSeenPrivacy},
	} {
		if pair.src == nil {
			continue
		}
		if !user.ValidPrivacyOption(*pair.src) {
			return user.User{}, wb_errors.ErrInvalidArgument
		}
		*pair.dst = *pair.src
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return user.User{}, err
	}
	s.audit.Record(ctx, userID, "user.profile_updated", "user", userID.String(), nil)
	return u, nil
}

// Login flips the durable online flag and primes the presence cache.
func (s *UserService) Login(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.SetOnline(ctx, userID, true); err != nil {
		return err
	}
	if s.presence != nil {
		return s.presence.SetOnline(ctx, userID.String())
	}
	return nil
}

// Logout records last seen in the database and marks the cache offline.
func (s *UserService) Logout(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	if err := s.repo.SetOnline(ctx, userID, false); err != nil {
		return err
	}
	if err := s.repo.UpdateLastSeen(ctx, userID, now); err != nil {
		return err
	}
	if s.presence != nil {
		return s.presence.SetOffline(ctx, userID.String())
	}
	return nil
}

// Heartbeat keeps the presence entry alive between requests.
func (s *UserService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	if s.presence == nil {
		return nil
	}
	return s.presence.Heartbeat(ctx, userID.String())
}

// Presence reads the cached state; unknown users come back offline.
func (s *UserService) Presence(ctx context.Context, userID uuid.UUID) (*redis.PresenceStatus, error) {
	if s.presence == nil {
		u, err := s.repo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		status := &redis.PresenceStatus{UserID: userID.String(), IsOnline: u.IsOnline}
		if u.LastSeenAt != nil {
			status.LastSeen = *u.LastSeenAt
		}
		return status, nil
	}
	return s.presence.GetPresence(ctx, userID.String())
}

func (s *UserService) AddContact(ctx context.Context, ownerID, contactID uuid.UUID, nickname string) error {
	if ownerID == contactID {
		return wb_errors.ErrInvalidArgument
	}
	if _, err := s.repo.GetByID(ctx, contactID); err != nil {
		return err
	}
	c := user.Contact{
		OwnerID:   ownerID,
		ContactID: contactID,
		CreatedAt: time.Now(),
	}
	if nickname != "" {
		c.Nickname = &nickname
	}
	return s.repo.UpsertContact(ctx, &c)
}

func (s *UserService) RemoveContact(ctx context.Context, ownerID, contactID uuid.UUID) error {
	return s.repo.RemoveContact(ctx, ownerID, contactID)
}

func (s *UserService) SetBlocked(ctx context.Context, ownerID, contactID uuid.UUID, blocked bool) error {
	c, err := s.repo.GetContact(ctx, ownerID, contactID)
	if err != nil {
		return err
	}
	c.IsBlocked = blocked
	return s.repo.UpsertContact(ctx, &c)
}

func (s *UserService) ListContacts(ctx context.Context, ownerID uuid.UUID) ([]user.Contact, error) {
	return s.repo.ListContacts(ctx, ownerID)
}
