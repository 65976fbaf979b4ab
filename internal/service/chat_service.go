package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"familyhub/internal/assistant"
	"familyhub/internal/models"
)

const maxMessageLength = 4000

// ConversationStore provides the conversation persistence the chat turn needs
type ConversationStore interface {
	GetByID(familyID, id string) (*models.Conversation, error)
	AddMessage(conversationID, role, content string) (*models.Message, error)
	ListMessages(conversationID string) ([]models.Message, error)
	Touch(id string) error
}

// ReminderStore provides reminder reads and writes for prompt context and
// directive materialization
type ReminderStore interface {
	ListOpen(familyID string) ([]models.Reminder, error)
	Create(familyID, title string, dueAt *time.Time, assignedTo *string) (*models.Reminder, error)
}

// MemberLister lists the members included in the assistant's context
type MemberLister interface {
	ListByFamily(familyID string) ([]models.Member, error)
}

// NoteLister lists the free-form family context notes
type NoteLister interface {
	ListByFamily(familyID string) ([]models.ContextNote, error)
}

// TurnResult is the outcome of one chat turn
type TurnResult struct {
	Reply            *models.Message
	RemindersCreated []models.Reminder
}

// ChatService orchestrates a chat turn: persist the user message, assemble
// the model context, call the assistant, persist the reply and materialize
// any reminder directives it contains.
type ChatService struct {
	conversations ConversationStore
	reminders     ReminderStore
	members       MemberLister
	notes         NoteLister
	assistant     assistant.Client
}

// NewChatService creates a new chat service
func NewChatService(conversations ConversationStore, reminders ReminderStore, members MemberLister, notes NoteLister, gateway assistant.Client) *ChatService {
	return &ChatService{
		conversations: conversations,
		reminders:     reminders,
		members:       members,
		notes:         notes,
		assistant:     gateway,
	}
}

// SendMessage runs a full chat turn for the family. The user message is
// stored before the upstream call, so a failed turn still leaves it in the
// conversation history.
func (s *ChatService) SendMessage(ctx context.Context, family *models.Family, conversationID, content string) (*TurnResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if len(content) > maxMessageLength {
		return nil, fmt.Errorf("%w: message too long", ErrValidation)
	}

	conversation, err := s.conversations.GetByID(family.ID, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
	}

	if _, err := s.conversations.AddMessage(conversation.ID, models.RoleUser, content); err != nil {
		return nil, err
	}
	if err := s.conversations.Touch(conversation.ID); err != nil {
		log.Printf("Failed to touch conversation %s: %v", conversation.ID, err)
	}

	systemPrompt, err := s.buildContext(family)
	if err != nil {
		return nil, err
	}

	history, err := s.conversations.ListMessages(conversation.ID)
	if err != nil {
		return nil, err
	}
	turns := make([]assistant.Message, 0, len(history))
	for _, m := range history {
		turns = append(turns, assistant.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := s.assistant.Generate(ctx, systemPrompt, turns)
	if err != nil {
		return nil, err
	}

	stored, err := s.conversations.AddMessage(conversation.ID, models.RoleAssistant, reply)
	if err != nil {
		return nil, err
	}

	result := &TurnResult{Reply: stored}
	for _, directive := range assistant.ExtractDirectives(reply) {
		reminder, err := s.reminders.Create(family.ID, directive.Title, directive.DueAt, directive.AssignedTo)
		if err != nil {
			log.Printf("Failed to create reminder %q from assistant reply: %v", directive.Title, err)
			continue
		}
		result.RemindersCreated = append(result.RemindersCreated, *reminder)
	}
	return result, nil
}

func (s *ChatService) buildContext(family *models.Family) (string, error) {
	members, err := s.members.ListByFamily(family.ID)
	if err != nil {
		return "", err
	}
	notes, err := s.notes.ListByFamily(family.ID)
	if err != nil {
		return "", err
	}
	reminders, err := s.reminders.ListOpen(family.ID)
	if err != nil {
		return "", err
	}
	return assistant.BuildSystemPrompt(family.Name, members, notes, reminders), nil
}
