package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"chathub/internal/model"
	"chathub/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
// WithTransaction runs the closure against this mock and Creds directly, so
// tests observe the writes that would happen inside the transaction.
type MockUserRepository struct {
	mock.Mock
	Creds *MockCredentialRepository
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ListPending(ctx context.Context, offset, limit int) ([]model.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ClearResetToken(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, users repository.UserRepository, creds repository.CredentialRepository) error) error {
	return fn(ctx, m, m.Creds)
}

// MockCredentialRepository is a mock implementation of repository.CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) Update(ctx context.Context, cred *model.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) Delete(ctx context.Context, cred *model.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) FindByUserID(ctx context.Context, userID uint) (*model.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Credential), args.Error(1)
}

func (m *MockCredentialRepository) FindByUsername(ctx context.Context, username string) (*model.Credential, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Credential), args.Error(1)
}

func (m *MockCredentialRepository) UsernameTaken(ctx context.Context, username string, excludeUserID uint) (bool, error) {
	args := m.Called(ctx, username, excludeUserID)
	return args.Bool(0), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockChatRepository is a mock implementation of repository.ChatRepository.
// WithTransaction runs the closure against this mock and Msgs directly, so
// tests observe the writes that would happen inside the transaction.
type MockChatRepository struct {
	mock.Mock
	Msgs *MockChatMessageRepository
}

func (m *MockChatRepository) Create(ctx context.Context, chat *model.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *MockChatRepository) Update(ctx context.Context, chat *model.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *MockChatRepository) Delete(ctx context.Context, chat *model.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *MockChatRepository) FindByID(ctx context.Context, id uint) (*model.Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Chat), args.Error(1)
}

func (m *MockChatRepository) ListForUser(ctx context.Context, userID uint, offset, limit int) ([]model.Chat, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Chat), args.Error(1)
}

func (m *MockChatRepository) AddMember(ctx context.Context, chatID, userID uint, role string) error {
	args := m.Called(ctx, chatID, userID, role)
	return args.Error(0)
}

func (m *MockChatRepository) UpdateMemberRole(ctx context.Context, chatID, userID uint, role string) error {
	args := m.Called(ctx, chatID, userID, role)
	return args.Error(0)
}

func (m *MockChatRepository) RemoveMember(ctx context.Context, chatID, userID uint) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *MockChatRepository) IsMember(ctx context.Context, chatID, userID uint) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRepository) ListMembers(ctx context.Context, chatID uint) ([]repository.ChatMember, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ChatMember), args.Error(1)
}

func (m *MockChatRepository) TouchLastUsed(ctx context.Context, chatID uint, at time.Time) error {
	args := m.Called(ctx, chatID, at)
	return args.Error(0)
}

func (m *MockChatRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, chats repository.ChatRepository, msgs repository.ChatMessageRepository) error) error {
	return fn(ctx, m, m.Msgs)
}

// MockChatMessageRepository is a mock implementation of repository.ChatMessageRepository.
type MockChatMessageRepository struct {
	mock.Mock
}

func (m *MockChatMessageRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatMessageRepository) Update(ctx context.Context, msg *model.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatMessageRepository) Delete(ctx context.Context, msg *model.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatMessageRepository) FindByID(ctx context.Context, chatID, messageID uint) (*model.ChatMessage, error) {
	args := m.Called(ctx, chatID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatMessage), args.Error(1)
}

func (m *MockChatMessageRepository) ListForChat(ctx context.Context, chatID uint, offset, limit int) ([]model.ChatMessage, error) {
	args := m.Called(ctx, chatID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}
