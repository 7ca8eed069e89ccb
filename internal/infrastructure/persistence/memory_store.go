package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/pkg/errors"
)

// memoryStore 内存存储
// Slices keep insertion order; sorts are stable so ties keep it too.
type memoryStore struct {
	mu            sync.RWMutex
	hosts         map[string]*entity.Host
	properties    map[string]*entity.Property
	items         []*entity.KnowledgeItem
	services      []*entity.Service
	steps         []*entity.CheckInStep
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message // conversation id -> messages
	issues        []*entity.Issue
	notifications []*entity.Notification
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		hosts:         make(map[string]*entity.Host),
		properties:    make(map[string]*entity.Property),
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
	}
}

// --- hosts ---

type memoryHosts struct{ s *memoryStore }

func (r *memoryHosts) Save(_ context.Context, h *entity.Host) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.hosts {
		if existing.Email == h.Email {
			return errors.NewAlreadyExistsError("host already exists")
		}
	}
	cp := *h
	r.s.hosts[h.ID] = &cp
	return nil
}

func (r *memoryHosts) FindByID(_ context.Context, id string) (*entity.Host, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	h, ok := r.s.hosts[id]
	if !ok {
		return nil, errors.NewNotFoundError("host not found")
	}
	cp := *h
	return &cp, nil
}

func (r *memoryHosts) FindByEmail(_ context.Context, email string) (*entity.Host, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = entity.NormalizeEmail(email)
	for _, h := range r.s.hosts {
		if h.Email == email {
			cp := *h
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("host not found")
}

// --- properties ---

type memoryProperties struct{ s *memoryStore }

func (r *memoryProperties) Save(_ context.Context, p *entity.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[p.ID]; ok {
		return errors.NewAlreadyExistsError("property already exists")
	}
	cp := *p
	r.s.properties[p.ID] = &cp
	return nil
}

func (r *memoryProperties) Update(_ context.Context, p *entity.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.properties[p.ID]
	if !ok {
		return errors.NewNotFoundError("property not found")
	}
	cp := *p
	cp.HostID, cp.AccessLink, cp.QRCode, cp.CreatedAt = existing.HostID, existing.AccessLink, existing.QRCode, existing.CreatedAt
	r.s.properties[p.ID] = &cp
	return nil
}

func (r *memoryProperties) FindByID(_ context.Context, id string) (*entity.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.properties[id]
	if !ok {
		return nil, errors.NewNotFoundError("property not found")
	}
	cp := *p
	return &cp, nil
}

func (r *memoryProperties) FindByHost(_ context.Context, hostID string) ([]*entity.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Property, 0)
	for _, p := range r.s.properties {
		if p.HostID == hostID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memoryProperties) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[id]; !ok {
		return errors.NewNotFoundError("property not found")
	}
	delete(r.s.properties, id)

	for convID, c := range r.s.conversations {
		if c.PropertyID() == id {
			delete(r.s.conversations, convID)
			delete(r.s.messages, convID)
		}
	}
	r.s.items = filter(r.s.items, func(i *entity.KnowledgeItem) bool { return i.PropertyID != id })
	r.s.services = filter(r.s.services, func(s *entity.Service) bool { return s.PropertyID != id })
	r.s.steps = filter(r.s.steps, func(s *entity.CheckInStep) bool { return s.PropertyID != id })
	r.s.issues = filter(r.s.issues, func(i *entity.Issue) bool { return i.PropertyID != id })
	return nil
}

// --- knowledge ---

type memoryKnowledge struct{ s *memoryStore }

func (r *memoryKnowledge) SaveItem(_ context.Context, item *entity.KnowledgeItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *item
	r.s.items = append(r.s.items, &cp)
	return nil
}

func (r *memoryKnowledge) ListItems(_ context.Context, propertyID string) ([]*entity.KnowledgeItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := copyWhere(r.s.items, func(i *entity.KnowledgeItem) bool { return i.PropertyID == propertyID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryKnowledge) DeleteItem(_ context.Context, propertyID, itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ok bool
	r.s.items, ok = remove(r.s.items, func(i *entity.KnowledgeItem) bool { return i.ID == itemID && i.PropertyID == propertyID })
	if !ok {
		return errors.NewNotFoundError("knowledge item not found")
	}
	return nil
}

func (r *memoryKnowledge) SaveService(_ context.Context, s *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *s
	r.s.services = append(r.s.services, &cp)
	return nil
}

func (r *memoryKnowledge) UpdateService(_ context.Context, s *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.services {
		if existing.ID == s.ID && existing.PropertyID == s.PropertyID {
			cp := *s
			r.s.services[i] = &cp
			return nil
		}
	}
	return errors.NewNotFoundError("service not found")
}

func (r *memoryKnowledge) FindService(_ context.Context, propertyID, serviceID string) (*entity.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, s := range r.s.services {
		if s.ID == serviceID && s.PropertyID == propertyID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("service not found")
}

func (r *memoryKnowledge) ListServices(_ context.Context, propertyID string) ([]*entity.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyWhere(r.s.services, func(s *entity.Service) bool { return s.PropertyID == propertyID }), nil
}

func (r *memoryKnowledge) DeleteService(_ context.Context, propertyID, serviceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ok bool
	r.s.services, ok = remove(r.s.services, func(s *entity.Service) bool { return s.ID == serviceID && s.PropertyID == propertyID })
	if !ok {
		return errors.NewNotFoundError("service not found")
	}
	return nil
}

func (r *memoryKnowledge) SaveCheckInStep(_ context.Context, step *entity.CheckInStep) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *step
	r.s.steps = append(r.s.steps, &cp)
	return nil
}

func (r *memoryKnowledge) ListCheckInSteps(_ context.Context, propertyID string) ([]*entity.CheckInStep, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := copyWhere(r.s.steps, func(s *entity.CheckInStep) bool { return s.PropertyID == propertyID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Step < out[j].Step })
	return out, nil
}

func (r *memoryKnowledge) DeleteCheckInStep(_ context.Context, propertyID, stepID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ok bool
	r.s.steps, ok = remove(r.s.steps, func(s *entity.CheckInStep) bool { return s.ID == stepID && s.PropertyID == propertyID })
	if !ok {
		return errors.NewNotFoundError("check-in step not found")
	}
	return nil
}

// --- conversations & messages ---

type memoryConversations struct{ s *memoryStore }

func (r *memoryConversations) Save(_ context.Context, c *entity.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.conversations[c.ID()]; ok {
		return errors.NewAlreadyExistsError("conversation already exists")
	}
	r.s.conversations[c.ID()] = c
	return nil
}

func (r *memoryConversations) FindByID(_ context.Context, id string) (*entity.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.conversations[id]
	if !ok {
		return nil, errors.NewNotFoundError("conversation not found")
	}
	return c, nil
}

func (r *memoryConversations) CountByProperty(_ context.Context, propertyID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, c := range r.s.conversations {
		if c.PropertyID() == propertyID {
			n++
		}
	}
	return n, nil
}

type memoryMessages struct{ s *memoryStore }

// Save 保存消息
func (r *memoryMessages) Save(_ context.Context, m *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	convID := m.ConversationID()
	r.s.messages[convID] = append(r.s.messages[convID], m)
	return nil
}

// FindByConversationID 根据会话ID查找消息列表
func (r *memoryMessages) FindByConversationID(_ context.Context, conversationID string) ([]*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.ordered(conversationID, ""), nil
}

func (r *memoryMessages) FindRecent(_ context.Context, conversationID string, limit int, excludeID string) ([]*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if limit <= 0 {
		return []*entity.Message{}, nil
	}
	all := r.ordered(conversationID, excludeID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (r *memoryMessages) Count(_ context.Context, conversationID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.messages[conversationID])), nil
}

// ordered must be called with the read lock held.
func (r *memoryMessages) ordered(conversationID, excludeID string) []*entity.Message {
	src := r.s.messages[conversationID]
	out := make([]*entity.Message, 0, len(src))
	for _, m := range src {
		if m.ID() != excludeID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out
}

// --- issues & notifications ---

type memoryIssues struct{ s *memoryStore }

func (r *memoryIssues) Save(_ context.Context, issue *entity.Issue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *issue
	r.s.issues = append(r.s.issues, &cp)
	return nil
}

func (r *memoryIssues) FindByProperty(_ context.Context, propertyID string) ([]*entity.Issue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return reversed(copyWhere(r.s.issues, func(i *entity.Issue) bool { return i.PropertyID == propertyID })), nil
}

func (r *memoryIssues) CountByProperty(_ context.Context, propertyID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(copyWhere(r.s.issues, func(i *entity.Issue) bool { return i.PropertyID == propertyID }))), nil
}

type memoryNotifications struct{ s *memoryStore }

func (r *memoryNotifications) Save(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r *memoryNotifications) FindByHost(_ context.Context, hostID string) ([]*entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return reversed(copyWhere(r.s.notifications, func(n *entity.Notification) bool { return n.HostID == hostID })), nil
}

func (r *memoryNotifications) MarkRead(_ context.Context, hostID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == id && n.HostID == hostID {
			n.Read = true
			return nil
		}
	}
	return errors.NewNotFoundError("notification not found")
}

// --- helpers ---

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func remove[T any](in []T, match func(T) bool) ([]T, bool) {
	for i, v := range in {
		if match(v) {
			return append(in[:i], in[i+1:]...), true
		}
	}
	return in, false
}

// copyWhere returns shallow copies of the matching elements.
func copyWhere[T any](in []*T, match func(*T) bool) []*T {
	out := make([]*T, 0)
	for _, v := range in {
		if match(v) {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out
}

// reversed turns insertion order into newest first.
func reversed[T any](in []T) []T {
	for i, j := 0, len(in)-1; i < j; i, j = i+1, j-1 {
		in[i], in[j] = in[j], in[i]
	}
	return in
}
