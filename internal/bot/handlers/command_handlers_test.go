package handlers

import (
	"CaptionRelay/internal/bot/messages"
	"CaptionRelay/internal/core/ports"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func commandUpdate() *ports.BotUpdate {
	return &ports.BotUpdate{MessageID: 12, ChatID: 700, UserID: 700, Command: "test"}
}

func TestStartHandler(t *testing.T) {
	nopLogger := zerolog.Nop()
	client := new(MockBotClient)
	h := NewStartHandler(testConfig(0), nil, client, &nopLogger)

	client.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == 700 &&
			p.ReplyToMessageID == 12 &&
			p.ParseMode == ports.ParseModeHTML &&
			p.Text == messages.Welcome()
	})).Return(1, nil).Once()

	assert.Equal(t, "start", h.Command())
	assert.NoError(t, h.Handle(context.Background(), commandUpdate()))
	client.AssertExpectations(t)
}

func TestGuidanceHandler(t *testing.T) {
	nopLogger := zerolog.Nop()
	client := new(MockBotClient)
	h := NewGuidanceHandler(testConfig(0), nil, client, &nopLogger)

	client.On("SendMessage", mock.Anything, textIs(messages.Guidance())).Return(1, nil).Once()

	assert.NoError(t, h.Handle(context.Background(), &ports.BotUpdate{ChatID: 700, Text: "hi"}))
	client.AssertExpectations(t)
}

func TestTestHandler_PostsAndDeletesProbe(t *testing.T) {
	probeLifetime = 10 * time.Millisecond
	defer func() { probeLifetime = 2 * time.Second }()

	nopLogger := zerolog.Nop()
	client := new(MockBotClient)
	h := NewTestHandler(testConfig(-100123), nil, client, &nopLogger)

	client.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == -100123 && p.Text == messages.TestProbe()
	})).Return(555, nil).Once()
	client.On("SendMessage", mock.Anything, textIs(messages.TestSucceeded(-100123, 555))).Return(2, nil).Once()
	deleted := make(chan struct{})
	client.On("DeleteMessage", mock.Anything, int64(-100123), 555).
		Run(func(mock.Arguments) { close(deleted) }).
		Return(nil).Once()

	assert.Equal(t, "test", h.Command())
	assert.NoError(t, h.Handle(context.Background(), commandUpdate()))

	select {
	case <-deleted:
	case <-time.After(2 * time.Second):
		t.Fatal("probe was not deleted")
	}
	client.AssertExpectations(t)
}

func TestTestHandler_ReportsFailure(t *testing.T) {
	nopLogger := zerolog.Nop()
	client := new(MockBotClient)
	h := NewTestHandler(testConfig(-100123), nil, client, &nopLogger)

	cause := errors.New("Forbidden: bot is not a member of the supergroup chat")
	client.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == -100123
	})).Return(0, cause).Once()
	client.On("SendMessage", mock.Anything, textIs(messages.TestFailed(-100123, cause))).Return(2, nil).Once()

	err := h.Handle(context.Background(), commandUpdate())

	assert.ErrorIs(t, err, cause)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestTestHandler_NoWorkingGroup(t *testing.T) {
	nopLogger := zerolog.Nop()
	client := new(MockBotClient)
	h := NewTestHandler(testConfig(0), nil, client, &nopLogger)

	client.On("SendMessage", mock.Anything, textIs(messages.NoWorkingGroup())).Return(1, nil).Once()

	assert.NoError(t, h.Handle(context.Background(), commandUpdate()))
	client.AssertExpectations(t)
}
