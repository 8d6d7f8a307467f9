package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/message"
	"whitebeat/internal/proxy"
	"whitebeat/internal/repository"
	wb_errors "whitebeat/pkg/errors"
)

const (
	seqKindConversation = "CONVERSATION"
	seqKindGroup        = "GROUP"
)

// MessagePage is one window of an ordered context listing.
type MessagePage struct {
	Messages []message.Message
	Total    int64
	HasMore  bool
}

type MessageService struct {
	db               *gorm.DB
	messageRepo      repository.MessageRepository
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	access           *proxy.AccessControl
	audit            *AuditPublisher
	bus              *commands.Bus
}

func NewMessageService(db *gorm.DB, messageRepo repository.MessageRepository, conversationRepo repository.ConversationRepository, userRepo repository.UserRepository, access *proxy.AccessControl, audit *AuditPublisher, bus *commands.Bus) *MessageService {
	if bus == nil {
		bus = commands.NewBus()
	}
	svc := &MessageService{
		db:               db,
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		access:           access,
		audit:            audit,
		bus:              bus,
	}
	svc.RegisterHandlers(bus)
	return svc
}

func (s *MessageService) RegisterHandlers(bus *commands.Bus) {
	if bus == nil {
		return
	}
	bus.Register("message.send", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.SendMessageCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeSend(ctx, typed)
	}))
	bus.Register("message.edit", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.EditMessageCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeEdit(ctx, typed)
	}))
	bus.Register("message.delete", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.DeleteMessageCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeDelete(ctx, typed)
	}))
	bus.Register("message.react", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.ReactMessageCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeReact(ctx, typed)
	}))
	bus.Register("message.mark_read", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.MarkReadCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeMarkRead(ctx, typed)
	}))
	bus.Register("message.forward", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.ForwardMessageCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeForward(ctx, typed)
	}))
}

// Send validates the intent, resolves the addressing context, and persists
// the message, the sequence bump, the sender counter and the thread touch
// in one transaction.
func (s *MessageService) Send(ctx context.Context, cmd commands.SendMessageCommand) (message.Message, error) {
	if err := cmd.Validate(); err != nil {
		return message.Message{}, err
	}
	res, err := s.bus.Execute(ctx, cmd)
	if err != nil {
		return message.Message{}, err
	}
	return res.Payload.(message.Message), nil
}

func (s *MessageService) executeSend(ctx context.Context, cmd commands.SendMessageCommand) (commands.Result, error) {
	msg := message.Message{
		ID:       uuid.New(),
		SenderID: cmd.SenderID,
		Type:     cmd.Type,
		Content:  cmd.Content,
		MediaURL: cmd.MediaURL,
		ReplyToID: cmd.ReplyTo,
		CreatedAt: time.Now(),
	}
	if msg.Type == "" {
		msg.Type = message.TypeText
	}

	var seqKind string
	var seqContext uuid.UUID

	switch cmd.Target.Kind {
	case message.TargetDirect:
		conv, err := s.conversationRepo.GetOrCreate(ctx, cmd.SenderID, cmd.Target.Receiver)
		if err != nil {
			return commands.Result{}, err
		}
		receiver := cmd.Target.Receiver
		msg.ConversationID = &conv.ID
		msg.ReceiverID = &receiver
		seqKind, seqContext = seqKindConversation, conv.ID

	case message.TargetGroup:
		if err := s.access.CanSendToGroup(ctx, cmd.SenderID, cmd.Target.Group); err != nil {
			return commands.Result{}, err
		}
		groupID := cmd.Target.Group
		msg.GroupID = &groupID
		seqKind, seqContext = seqKindGroup, groupID
	}

	if cmd.ReplyTo != nil {
		replied, err := s.messageRepo.GetByID(ctx, *cmd.ReplyTo)
		if err != nil {
			return commands.Result{}, err
		}
		if !sameContext(replied, msg) {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		msgRepo := repository.NewMessageRepository(tx)
		userRepo := repository.NewUserRepository(tx)
		convRepo := repository.NewConversationRepository(tx)

		seq, err := msgRepo.NextSeq(ctx, seqKind, seqContext)
		if err != nil {
			return err
		}
		msg.Seq = seq

		if err := msgRepo.Create(ctx, &msg); err != nil {
			return err
		}
		if err := userRepo.IncrementTotalMessages(ctx, cmd.SenderID); err != nil {
			return err
		}
		if msg.ConversationID != nil {
			return convRepo.Touch(ctx, *msg.ConversationID, msg.CreatedAt)
		}
		return nil
	})
	if err != nil {
		return commands.Result{}, err
	}

	s.audit.Record(ctx, cmd.SenderID, "message.sent", "message", msg.ID.String(), nil)
	return commands.Result{AggregateID: msg.ID.String(), Payload: msg}, nil
}

func sameContext(a, b message.Message) bool {
	if a.ConversationID != nil && b.ConversationID != nil {
		return *a.ConversationID == *b.ConversationID
	}
	if a.GroupID != nil && b.GroupID != nil {
		return *a.GroupID == *b.GroupID
	}
	return false
}

// Edit is sender-only and content-only; type and media are immutable after
// creation.
func (s *MessageService) Edit(ctx context.Context, cmd commands.EditMessageCommand) (message.Message, error) {
	if err := cmd.Validate(); err != nil {
		return message.Message{}, err
	}
	res, err := s.bus.Execute(ctx, cmd)
	if err != nil {
		return message.Message{}, err
	}
	return res.Payload.(message.Message), nil
}

func (s *MessageService) executeEdit(ctx context.Context, cmd commands.EditMessageCommand) (commands.Result, error) {
	msg, err := s.messageRepo.GetByID(ctx, cmd.MessageID)
	if err != nil {
		return commands.Result{}, err
	}
	if msg.SenderID != cmd.ActorID {
		return commands.Result{}, wb_errors.ErrForbidden
	}
	content := cmd.NewContent
	msg.Content = &content
	msg.EditedAt = wb_errors.NowPtr()
	if err := s.messageRepo.Update(ctx, msg); err != nil {
		return commands.Result{}, err
	}
	s.audit.Record(ctx, cmd.ActorID, "message.edited", "message", msg.ID.String(), nil)
	return commands.Result{AggregateID: msg.ID.String(), Payload: msg}, nil
}

// Delete is sender-only. ForEveryone hides the message from all readers;
// otherwise only the actor's view is suppressed.
func (s *MessageService) Delete(ctx context.Context, cmd commands.DeleteMessageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	_, err := s.bus.Execute(ctx, cmd)
	return err
}

func (s *MessageService) executeDelete(ctx context.Context, cmd commands.DeleteMessageCommand) (commands.Result, error) {
	msg, err := s.messageRepo.GetByID(ctx, cmd.MessageID)
	if err != nil {
		return commands.Result{}, err
	}
	if msg.SenderID != cmd.ActorID {
		return commands.Result{}, wb_errors.ErrForbidden
	}

	if cmd.ForEveryone {
		if err := s.messageRepo.SetDeletedForEveryone(ctx, cmd.MessageID); err != nil {
			return commands.Result{}, err
		}
		s.audit.Record(ctx, cmd.ActorID, "message.deleted_for_everyone", "message", msg.ID.String(), nil)
	} else {
		if err := s.messageRepo.AddSuppression(ctx, cmd.MessageID, cmd.ActorID); err != nil {
			return commands.Result{}, err
		}
		s.audit.Record(ctx, cmd.ActorID, "message.deleted_locally", "message", msg.ID.String(), nil)
	}
	return commands.Result{AggregateID: msg.ID.String()}, nil
}

// React upserts the caller's single reaction on the message.
func (s *MessageService) React(ctx context.Context, cmd commands.ReactMessageCommand) (message.Reaction, error) {
	if err := cmd.Validate(); err != nil {
		return message.Reaction{}, err
	}
	res, err := s.bus.Execute(ctx, cmd)
	if err != nil {
		return message.Reaction{}, err
	}
	return res.Payload.(message.Reaction), nil
}

func (s *MessageService) executeReact(ctx context.Context, cmd commands.ReactMessageCommand) (commands.Result, error) {
	msg, err := s.messageRepo.GetByID(ctx, cmd.MessageID)
	if err != nil {
		return commands.Result{}, err
	}
	if err := s.requireParticipant(ctx, cmd.UserID, msg); err != nil {
		return commands.Result{}, err
	}

	reaction := message.Reaction{
		MessageID: cmd.MessageID,
		UserID:    cmd.UserID,
		Type:      cmd.Reaction,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.UpsertReaction(ctx, &reaction); err != nil {
		return commands.Result{}, err
	}
	s.audit.Record(ctx, cmd.UserID, "message.reacted", "message", msg.ID.String(), map[string]interface{}{"reaction": string(cmd.Reaction)})
	return commands.Result{AggregateID: msg.ID.String(), Payload: reaction}, nil
}

// MarkRead bulk-transitions everything unread addressed to the reader in
// the named context. Monotonic and idempotent.
func (s *MessageService) MarkRead(ctx context.Context, cmd commands.MarkReadCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	_, err := s.bus.Execute(ctx, cmd)
	return err
}

func (s *MessageService) executeMarkRead(ctx context.Context, cmd commands.MarkReadCommand) (commands.Result, error) {
	if cmd.ConversationID != nil {
		if err := s.access.CanViewConversation(ctx, cmd.ReaderID, *cmd.ConversationID); err != nil {
			return commands.Result{}, err
		}
		if err := s.messageRepo.MarkConversationRead(ctx, *cmd.ConversationID, cmd.ReaderID); err != nil {
			return commands.Result{}, err
		}
		return commands.Result{AggregateID: cmd.ConversationID.String()}, nil
	}

	if err := s.access.RequireGroupMember(ctx, cmd.ReaderID, *cmd.GroupID); err != nil {
		return commands.Result{}, err
	}
	if err := s.messageRepo.MarkGroupRead(ctx, *cmd.GroupID, cmd.ReaderID); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{AggregateID: cmd.GroupID.String()}, nil
}

// Forward re-sends an existing message's content into another context with
// the forwarded flag set; send authorization applies unchanged.
func (s *MessageService) Forward(ctx context.Context, cmd commands.ForwardMessageCommand) (message.Message, error) {
	if err := cmd.Validate(); err != nil {
		return message.Message{}, err
	}
	res, err := s.bus.Execute(ctx, cmd)
	if err != nil {
		return message.Message{}, err
	}
	return res.Payload.(message.Message), nil
}

func (s *MessageService) executeForward(ctx context.Context, cmd commands.ForwardMessageCommand) (commands.Result, error) {
	source, err := s.messageRepo.GetByID(ctx, cmd.MessageID)
	if err != nil {
		return commands.Result{}, err
	}
	if source.DeletedForEveryone {
		return commands.Result{}, wb_errors.ErrNotFound
	}
	if err := s.requireParticipant(ctx, cmd.SenderID, source); err != nil {
		return commands.Result{}, err
	}

	res, err := s.executeSend(ctx, commands.SendMessageCommand{
		SenderID: cmd.SenderID,
		Target:   cmd.Target,
		Type:     source.Type,
		Content:  source.Content,
		MediaURL: source.MediaURL,
	})
	if err != nil {
		return commands.Result{}, err
	}
	forwarded := res.Payload.(message.Message)
	forwarded.IsForwarded = true
	if err := s.messageRepo.Update(ctx, forwarded); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{AggregateID: forwarded.ID.String(), Payload: forwarded}, nil
}

// MarkDelivered records delivery to one recipient, idempotently.
func (s *MessageService) MarkDelivered(ctx context.Context, messageID, userID uuid.UUID) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if err := s.requireParticipant(ctx, userID, msg); err != nil {
		return err
	}
	return s.messageRepo.MarkDelivered(ctx, messageID, userID)
}

// ListConversation returns one ordered window of a 1:1 thread, viewer
// suppressions applied.
func (s *MessageService) ListConversation(ctx context.Context, conversationID, viewerID uuid.UUID, offset, limit int) (MessagePage, error) {
	if err := s.access.CanViewConversation(ctx, viewerID, conversationID); err != nil {
		return MessagePage{}, err
	}
	messages, total, err := s.messageRepo.ListConversation(ctx, conversationID, viewerID, offset, limit)
	if err != nil {
		return MessagePage{}, err
	}
	return newMessagePage(messages, total, offset), nil
}

// ListGroup is the group counterpart, member-gated.
func (s *MessageService) ListGroup(ctx context.Context, groupID, viewerID uuid.UUID, offset, limit int) (MessagePage, error) {
	if err := s.access.RequireGroupMember(ctx, viewerID, groupID); err != nil {
		return MessagePage{}, err
	}
	messages, total, err := s.messageRepo.ListGroup(ctx, groupID, viewerID, offset, limit)
	if err != nil {
		return MessagePage{}, err
	}
	return newMessagePage(messages, total, offset), nil
}

func newMessagePage(messages []message.Message, total int64, offset int) MessagePage {
	return MessagePage{
		Messages: messages,
		Total:    total,
		HasMore:  int64(offset+len(messages)) < total,
	}
}

func (s *MessageService) requireParticipant(ctx context.Context, userID uuid.UUID, msg message.Message) error {
	if msg.ConversationID != nil {
		return s.access.CanViewConversation(ctx, userID, *msg.ConversationID)
	}
	if msg.GroupID != nil {
		return s.access.RequireGroupMember(ctx, userID, *msg.GroupID)
	}
	return wb_errors.ErrInvalidArgument
}
