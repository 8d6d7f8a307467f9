package database

import (
	"gorm.io/gorm"

	"whitebeat/internal/domain/audit"
	"whitebeat/internal/domain/call"
	"whitebeat/internal/domain/conversation"
	"whitebeat/internal/domain/group"
	"whitebeat/internal/domain/message"
	"whitebeat/internal/domain/status"
	"whitebeat/internal/domain/user"
)

// Models returns every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&user.Contact{},
		&conversation.Conversation{},
		&group.Group{},
		&group.Member{},
		&message.Message{},
		&message.Reaction{},
		&message.ReadReceipt{},
		&message.Delivery{},
		&message.Suppression{},
		&message.Sequence{},
		&status.Status{},
		&status.Audience{},
		&status.View{},
		&call.Call{},
		&audit.Event{},
	}
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
