package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/call"
	"whitebeat/internal/domain/message"
	"whitebeat/internal/proxy"
	"whitebeat/internal/repository"
	wb_errors "whitebeat/pkg/errors"
)

// sessionTokenAttempts bounds the collision-retry loop on call creation.
const sessionTokenAttempts = 3

// CallRecord is the viewer-relative read model for call history.
type CallRecord struct {
	Call       call.Call
	IsIncoming bool
}

type CallService struct {
	repo   repository.CallRepository
	access *proxy.AccessControl
	audit  *AuditPublisher
	bus    *commands.Bus
	now    func() time.Time
}

func NewCallService(repo repository.CallRepository, access *proxy.AccessControl, audit *AuditPublisher, bus *commands.Bus) *CallService {
	if bus == nil {
		bus = commands.NewBus()
	}
	svc := &CallService{repo: repo, access: access, audit: audit, bus: bus, now: time.Now}
	svc.RegisterHandlers(bus)
	return svc
}

// WithClock overrides the time source for duration tests.
func (s *CallService) WithClock(now func() time.Time) *CallService {
	s.now = now
	return s
}

func (s *CallService) RegisterHandlers(bus *commands.Bus) {
	if bus == nil {
		return
	}
	bus.Register("call.initiate", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.InitiateCallCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeInitiate(ctx, typed)
	}))
	bus.Register("call.transition", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.TransitionCallCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeTransition(ctx, typed)
	}))
}

// Initiate creates the call in INITIATED with a fresh session token for
// out-of-band signaling. Token collisions regenerate, bounded.
func (s *CallService) Initiate(ctx context.Context, cmd commands.InitiateCallCommand) (call.Call, error) {
	if err := cmd.Validate(); err != nil {
		return call.Call{}, err
	}
	res, err := s.bus.Execute(ctx, cmd)
	if err != nil {
		return call.Call{}, err
	}
	return res.Payload.(call.Call), nil
}

func (s *CallService) executeInitiate(ctx context.Context, cmd commands.InitiateCallCommand) (commands.Result, error) {
	if cmd.Target.Kind == message.TargetGroup {
		if err := s.access.RequireGroupMember(ctx, cmd.CallerID, cmd.Target.Group); err != nil {
			return commands.Result{}, err
		}
	}

	now := s.now()
	c := call.Call{
		ID:        uuid.New(),
		CallerID:  cmd.CallerID,
		Type:      cmd.Type,
		Status:    call.StatusInitiated,
		StartedAt: now,
		CreatedAt: now,
	}
	switch cmd.Target.Kind {
	case message.TargetDirect:
		receiver := cmd.Target.Receiver
		c.ReceiverID = &receiver
	case message.TargetGroup:
		groupID := cmd.Target.Group
		c.GroupID = &groupID
	}

	var err error
	for attempt := 0; attempt < sessionTokenAttempts; attempt++ {
		c.SessionToken = uuid.NewString()
		err = s.repo.Create(ctx, &c)
		if err == nil {
			break
		}
		if !errors.Is(err, wb_errors.ErrConflict) {
			return commands.Result{}, err
		}
	}
	if err != nil {
		return commands.Result{}, err
	}

	s.audit.Record(ctx, cmd.CallerID, "call.initiated", "call", c.ID.String(), map[string]interface{}{"type": string(cmd.Type)})
	return commands.Result{AggregateID: c.ID.String(), Payload: c}, nil
}

// Transition advances the state machine; duration accounting lives on the
// entity.
func (s *CallService) Transition(ctx context.Context, cmd commands.TransitionCallCommand) (call.Call, error) {
	if err := cmd.Validate(); err != nil {
		return call.Call{}, err
	}
	res, err := s.bus.Execute(ctx, cmd)
	if err != nil {
		return call.Call{}, err
	}
	return res.Payload.(call.Call), nil
}

func (s *CallService) executeTransition(ctx context.Context, cmd commands.TransitionCallCommand) (commands.Result, error) {
	c, err := s.repo.GetByID(ctx, cmd.CallID)
	if err != nil {
		return commands.Result{}, err
	}
	if err := s.requireParty(ctx, cmd.ActorID, c); err != nil {
		return commands.Result{}, err
	}
	if err := c.Transition(cmd.To, s.now()); err != nil {
		return commands.Result{}, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return commands.Result{}, err
	}
	s.audit.Record(ctx, cmd.ActorID, "call.transitioned", "call", c.ID.String(), map[string]interface{}{"status": string(cmd.To)})
	return commands.Result{AggregateID: c.ID.String(), Payload: c}, nil
}

func (s *CallService) GetByID(ctx context.Context, id uuid.UUID) (call.Call, error) {
	return s.repo.GetByID(ctx, id)
}

// HistoryFor lists the viewer's calls newest first, direction annotated.
func (s *CallService) HistoryFor(ctx context.Context, userID uuid.UUID) ([]CallRecord, error) {
	calls, err := s.repo.HistoryFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	records := make([]CallRecord, 0, len(calls))
	for _, c := range calls {
		records = append(records, CallRecord{Call: c, IsIncoming: c.IsIncoming(userID)})
	}
	return records, nil
}

func (s *CallService) requireParty(ctx context.Context, userID uuid.UUID, c call.Call) error {
	if c.CallerID == userID {
		return nil
	}
	if c.ReceiverID != nil && *c.ReceiverID == userID {
		return nil
	}
	if c.GroupID != nil {
		return s.access.RequireGroupMember(ctx, userID, *c.GroupID)
	}
	return wb_errors.ErrForbidden
}
