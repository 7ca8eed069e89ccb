package persistence

import (
	"gorm.io/gorm"

	"github.com/oulia/oulia/gateway/internal/domain/repository"
)

// Repositories bundles every store the application needs.
type Repositories struct {
	Hosts         repository.HostRepository
	Properties    repository.PropertyRepository
	Knowledge     repository.KnowledgeRepository
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Issues        repository.IssueRepository
	Notifications repository.NotificationRepository
}

// NewGormRepositories wires the GORM implementations over db.
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Hosts:         NewGormHostRepository(db),
		Properties:    NewGormPropertyRepository(db),
		Knowledge:     NewGormKnowledgeRepository(db),
		Conversations: NewGormConversationRepository(db),
		Messages:      NewGormMessageRepository(db),
		Issues:        NewGormIssueRepository(db),
		Notifications: NewGormNotificationRepository(db),
	}
}

// NewMemoryRepositories 创建内存仓储（用于开发/测试）
// All stores share one state so property deletion cascades like in SQL.
func NewMemoryRepositories() Repositories {
	s := newMemoryStore()
	return Repositories{
		Hosts:         &memoryHosts{s},
		Properties:    &memoryProperties{s},
		Knowledge:     &memoryKnowledge{s},
		Conversations: &memoryConversations{s},
		Messages:      &memoryMessages{s},
		Issues:        &memoryIssues{s},
		Notifications: &memoryNotifications{s},
	}
}
