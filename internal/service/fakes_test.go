package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/spec-kit/support-bot/internal/domain"
	"github.com/spec-kit/support-bot/internal/repository"
	"github.com/spec-kit/support-bot/internal/transport"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]*domain.Ticket

	failDelete bool
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[int64]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ticket.ID = r.nextID
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListOpen(_ context.Context, limit int) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.tickets))
	for id := range r.tickets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var result []domain.Ticket
	for _, id := range ids {
		if limit > 0 && len(result) >= limit {
			break
		}
		result = append(result, *r.tickets[id])
	}
	return result, nil
}

func (r *fakeTicketRepo) CountOpen(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.tickets)), nil
}

func (r *fakeTicketRepo) CountCreatedSince(_ context.Context, userID, sinceTS int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, ticket := range r.tickets {
		if ticket.UserID == userID && ticket.CreatedTS >= sinceTS {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) MarkAdminReplied(_ context.Context, id, ts int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket, ok := r.tickets[id]; ok {
		ticket.LastAdminReplyTS = &ts
	}
	return nil
}

func (r *fakeTicketRepo) MarkAdminReminded(_ context.Context, id, ts int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket, ok := r.tickets[id]; ok {
		ticket.LastAdminRemindTS = &ts
	}
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDelete {
		return false, errors.New("delete failed")
	}
	if _, ok := r.tickets[id]; !ok {
		return false, nil
	}
	delete(r.tickets, id)
	return true, nil
}

type fakeLimitsRepo struct {
	mu     sync.Mutex
	limits map[int64]*domain.UserLimits
}

func newFakeLimitsRepo() *fakeLimitsRepo {
	return &fakeLimitsRepo{limits: make(map[int64]*domain.UserLimits)}
}

func (r *fakeLimitsRepo) Get(_ context.Context, userID int64) (*domain.UserLimits, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	limits, ok := r.limits[userID]
	if !ok {
		limits = &domain.UserLimits{UserID: userID}
		r.limits[userID] = limits
	}
	copied := *limits
	return &copied, nil
}

func (r *fakeLimitsRepo) SetLastTicketTS(_ context.Context, userID, ts int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	limits, ok := r.limits[userID]
	if !ok {
		limits = &domain.UserLimits{UserID: userID}
		r.limits[userID] = limits
	}
	limits.LastTicketTS = ts
	return nil
}

func (r *fakeLimitsRepo) SetLastCallTS(_ context.Context, userID, ts int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	limits, ok := r.limits[userID]
	if !ok {
		limits = &domain.UserLimits{UserID: userID}
		r.limits[userID] = limits
	}
	limits.LastCallTS = ts
	return nil
}

type sentRecord struct {
	ChatID int64
	Text   string
	Markup any
}

type fakeSender struct {
	mu            sync.Mutex
	sent          []sentRecord
	nextMessageID int
	failChats     map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failChats: make(map[int64]bool)}
}

func (s *fakeSender) SendMessage(_ context.Context, chatID int64, text string, opts *transport.SendOptions) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failChats[chatID] {
		return 0, errors.New("delivery failed")
	}
	s.nextMessageID++
	record := sentRecord{ChatID: chatID, Text: text}
	if opts != nil {
		record.Markup = opts.ReplyMarkup
	}
	s.sent = append(s.sent, record)
	return s.nextMessageID, nil
}

func (s *fakeSender) EditMessageText(_ context.Context, chatID int64, messageID int, text string) error {
	return nil
}

func (s *fakeSender) AnswerCallback(_ context.Context, callbackID, text string, showAlert bool) error {
	return nil
}

func (s *fakeSender) messagesTo(chatID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var texts []string
	for _, record := range s.sent {
		if record.ChatID == chatID {
			texts = append(texts, record.Text)
		}
	}
	return texts
}

func (s *fakeSender) lastMessageID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextMessageID
}

func (s *fakeSender) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}
