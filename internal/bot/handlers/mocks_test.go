package handlers

import (
	"CaptionRelay/internal/core/domain"
	"CaptionRelay/internal/core/ports"
	"CaptionRelay/internal/shared/config"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBotClient is a mock for the BotClientPort
type MockBotClient struct {
	mock.Mock
}

func (m *MockBotClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}

func (m *MockBotClient) SendVideo(ctx context.Context, params ports.SendVideoParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}

func (m *MockBotClient) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	args := m.Called(ctx, chatID, messageID)
	return args.Error(0)
}

func (m *MockBotClient) SetMenuCommands(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDeliveryQueue
type MockDeliveryQueue struct {
	mock.Mock
}

func (m *MockDeliveryQueue) Enqueue(ctx context.Context, job *domain.Job) (int, error) {
	args := m.Called(ctx, job)
	return args.Int(0), args.Error(1)
}

var (
	_ ports.BotClientPort = (*MockBotClient)(nil)
	_ ports.DeliveryQueue = (*MockDeliveryQueue)(nil)
)

func testConfig(groupID int64) *config.Config {
	return &config.Config{
		Access: config.AccessConfig{WorkingGroupID: groupID},
	}
}

func textIs(want string) any {
	return mock.MatchedBy(func(p ports.SendMessageParams) bool { return p.Text == want })
}
