package core

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Guest message paging.
const (
	DefaultMessagePageSize = 20
	MaxMessagePageSize     = 100
	MaxMessageLength       = 5000
)

// NewGuestMessage is the public contact form.
type NewGuestMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate checks the contact form.
func (m NewGuestMessage) Validate() ErrorMap {
	errs := ErrorMap{}
	errs.Require("name", m.Name, "กรุณากรอกชื่อ")
	if errs.Require("email", m.Email, "กรุณากรอกอีเมล") {
		errs.Check("email", IsEmail(m.Email), "รูปแบบอีเมลไม่ถูกต้อง")
	}
	if strings.TrimSpace(m.Phone) != "" {
		errs.Check("phone", IsPhone(m.Phone), "รูปแบบเบอร์โทรศัพท์ไม่ถูกต้อง")
	}
	errs.Require("subject", m.Subject, "กรุณากรอกหัวข้อ")
	if errs.Require("message", m.Message, "กรุณากรอกข้อความ") {
		errs.Check("message", utf8.RuneCountInString(m.Message) <= MaxMessageLength,
			fmt.Sprintf("ข้อความยาวได้ไม่เกิน %d ตัวอักษร", MaxMessageLength))
	}
	return errs
}

// CreateGuestMessage stores a contact form message as unread, normal priority.
func (s *Service) CreateGuestMessage(ctx context.Context, in NewGuestMessage) (GuestMessage, error) {
	if errs := in.Validate(); errs.HasErrors() {
		return GuestMessage{}, &ValidationError{Fields: errs}
	}

	m := GuestMessage{
		ID:        uuid.NewString(),
		Name:      Normalize(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Subject:   Normalize(in.Subject),
		Message:   Normalize(in.Message),
		Status:    MessageUnread,
		Priority:  PriorityNormal,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return GuestMessage{}, fmt.Errorf("create guest message: %w", err)
	}
	return m, nil
}

// MessagePage is one page of guest messages.
type MessagePage struct {
	Messages   []GuestMessage `json:"messages"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// ParseMessageStatus validates a status; empty is allowed and means "any".
func ParseMessageStatus(s string) (MessageStatus, error) {
	st := MessageStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case "", MessageUnread, MessageRead, MessageReplied, MessageClosed:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidMessageUpdate, s)
}

// ParseMessagePriority validates a priority; empty is allowed and means "any".
func ParseMessagePriority(s string) (MessagePriority, error) {
	p := MessagePriority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "", PriorityLow, PriorityNormal, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidMessageUpdate, s)
}

// Normalized clamps paging and trims the search text.
func (f MessageFilter) Normalized() MessageFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultMessagePageSize
	}
	if f.PageSize > MaxMessagePageSize {
		f.PageSize = MaxMessagePageSize
	}
	f.Search = Normalize(f.Search)
	return f
}

// ListGuestMessages returns a page of messages, newest first.
func (s *Service) ListGuestMessages(ctx context.Context, f MessageFilter) (MessagePage, error) {
	f = f.Normalized()
	msgs, total, err := s.store.ListMessages(ctx, f)
	if err != nil {
		return MessagePage{}, fmt.Errorf("list guest messages: %w", err)
	}
	if msgs == nil {
		msgs = []GuestMessage{}
	}
	pages := int((total + int64(f.PageSize) - 1) / int64(f.PageSize))
	return MessagePage{
		Messages:   msgs,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: pages,
	}, nil
}

// GetGuestMessage returns a message without changing it.
func (s *Service) GetGuestMessage(ctx context.Context, id string) (GuestMessage, error) {
	if _, err := uuid.Parse(id); err != nil {
		return GuestMessage{}, ErrMessageNotFound
	}
	m, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return GuestMessage{}, fmt.Errorf("get guest message: %w", err)
	}
	return m, nil
}

// OpenGuestMessage returns a message, marking it read if it was unread.
// Messages already read, replied or closed keep their status.
func (s *Service) OpenGuestMessage(ctx context.Context, id string) (GuestMessage, error) {
	m, err := s.GetGuestMessage(ctx, id)
	if err != nil {
		return GuestMessage{}, err
	}
	if m.Status != MessageUnread {
		return m, nil
	}

	now := s.now()
	if err := s.store.MarkMessageRead(ctx, id, now); err != nil {
		return GuestMessage{}, fmt.Errorf("open guest message: %w", err)
	}
	m.Status = MessageRead
	m.ReadAt = &now
	return m, nil
}

// MessageChanges is an admin edit of a message. Nil fields stay unchanged.
type MessageChanges struct {
	Status   *MessageStatus
	Priority *MessagePriority
}

// UpdateMessage validates every change first and then applies them in one
// store write, so a rejected priority never leaves a half-applied status.
func (s *Service) UpdateMessage(ctx context.Context, id string, c MessageChanges) (GuestMessage, error) {
	if c.Status == nil && c.Priority == nil {
		return GuestMessage{}, fmt.Errorf("%w: nothing to update", ErrInvalidMessageUpdate)
	}
	var upd MessageUpdate
	if c.Status != nil {
		status, err := ParseMessageStatus(string(*c.Status))
		if err != nil {
			return GuestMessage{}, err
		}
		if status == "" {
			return GuestMessage{}, fmt.Errorf("%w: status required", ErrInvalidMessageUpdate)
		}
		upd.Status = &status
	}
	if c.Priority != nil {
		priority, err := ParseMessagePriority(string(*c.Priority))
		if err != nil {
			return GuestMessage{}, err
		}
		if priority == "" {
			return GuestMessage{}, fmt.Errorf("%w: priority required", ErrInvalidMessageUpdate)
		}
		upd.Priority = &priority
	}

	m, err := s.updateMessage(ctx, id, upd)
	if err != nil {
		return GuestMessage{}, err
	}
	if upd.Status != nil {
		s.LogAudit(ctx, ActionMessageStatus, id, map[string]any{"status": string(*upd.Status)})
	}
	if upd.Priority != nil {
		s.LogAudit(ctx, ActionMessagePriority, id, map[string]any{"priority": string(*upd.Priority)})
	}
	return m, nil
}

// UpdateMessageStatus sets a message's status.
func (s *Service) UpdateMessageStatus(ctx context.Context, id string, status MessageStatus) (GuestMessage, error) {
	return s.UpdateMessage(ctx, id, MessageChanges{Status: &status})
}

// SetMessagePriority sets a message's priority.
func (s *Service) SetMessagePriority(ctx context.Context, id string, priority MessagePriority) (GuestMessage, error) {
	return s.UpdateMessage(ctx, id, MessageChanges{Priority: &priority})
}

// ReplyGuestMessage records the admin's reply and marks the message replied.
func (s *Service) ReplyGuestMessage(ctx context.Context, id, reply string) (GuestMessage, error) {
	reply = Normalize(reply)
	if reply == "" {
		return GuestMessage{}, fmt.Errorf("%w: reply is empty", ErrInvalidMessageUpdate)
	}
	if utf8.RuneCountInString(reply) > MaxMessageLength {
		return GuestMessage{}, fmt.Errorf("%w: reply too long", ErrInvalidMessageUpdate)
	}

	status := MessageReplied
	m, err := s.updateMessage(ctx, id, MessageUpdate{
		Status:       &status,
		ReplyMessage: &reply,
		RepliedBy:    actorName(ctx),
	})
	if err != nil {
		return GuestMessage{}, err
	}
	s.LogAudit(ctx, ActionMessageReply, id, map[string]any{"length": utf8.RuneCountInString(reply)})
	return m, nil
}

func (s *Service) updateMessage(ctx context.Context, id string, upd MessageUpdate) (GuestMessage, error) {
	if _, err := uuid.Parse(id); err != nil {
		return GuestMessage{}, ErrMessageNotFound
	}
	upd.At = s.now()
	m, err := s.store.UpdateMessage(ctx, id, upd)
	if err != nil {
		return GuestMessage{}, fmt.Errorf("update guest message: %w", err)
	}
	return m, nil
}

// MessageStats returns the dashboard counters.
func (s *Service) MessageStats(ctx context.Context) (MessageStats, error) {
	st, err := s.store.MessageStats(ctx)
	if err != nil {
		return MessageStats{}, fmt.Errorf("message stats: %w", err)
	}
	return st, nil
}
