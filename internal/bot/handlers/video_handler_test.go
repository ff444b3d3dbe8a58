package handlers

import (
	"CaptionRelay/internal/bot/messages"
	"CaptionRelay/internal/core/delivery"
	"CaptionRelay/internal/core/domain"
	"CaptionRelay/internal/core/ports"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func videoUpdate(kind domain.ChatKind, caption string) *ports.BotUpdate {
	return &ports.BotUpdate{
		MessageID: 31,
		ChatID:    500,
		ChatKind:  kind,
		UserID:    700,
		Caption:   caption,
		Video:     &ports.VideoInfo{FileID: "file-1"},
	}
}

func TestVideoHandler_EnqueuesJob(t *testing.T) {
	nopLogger := zerolog.Nop()
	queue := new(MockDeliveryQueue)
	client := new(MockBotClient)
	h := NewVideoHandler(testConfig(0), queue, client, &nopLogger)

	queue.On("Enqueue", mock.Anything, mock.MatchedBy(func(j *domain.Job) bool {
		return j.SenderID == 700 &&
			j.ChatID == 500 &&
			j.ChatKind == domain.ChatPrivate &&
			j.MessageID == 31 &&
			j.MediaHandle == "file-1" &&
			j.RawCaption == "A.B.mp4"
	})).Return(1, nil).Once()

	err := h.Handle(context.Background(), videoUpdate(domain.ChatPrivate, "A.B.mp4"))

	assert.NoError(t, err)
	queue.AssertExpectations(t)
	client.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestVideoHandler_QueuedAcknowledgement(t *testing.T) {
	nopLogger := zerolog.Nop()
	queue := new(MockDeliveryQueue)
	client := new(MockBotClient)
	h := NewVideoHandler(testConfig(0), queue, client, &nopLogger)

	queue.On("Enqueue", mock.Anything, mock.Anything).Return(3, nil).Once()
	client.On("SendMessage", mock.Anything, textIs(messages.Queued(3))).Return(9, nil).Once()

	assert.NoError(t, h.Handle(context.Background(), videoUpdate(domain.ChatPrivate, "x")))
	client.AssertExpectations(t)
}

func TestVideoHandler_GroupIsSilent(t *testing.T) {
	nopLogger := zerolog.Nop()
	queue := new(MockDeliveryQueue)
	client := new(MockBotClient)
	h := NewVideoHandler(testConfig(-1), queue, client, &nopLogger)

	queue.On("Enqueue", mock.Anything, mock.Anything).Return(4, nil).Once()

	assert.NoError(t, h.Handle(context.Background(), videoUpdate(domain.ChatGroup, "x")))
	client.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestVideoHandler_QueueClosed(t *testing.T) {
	nopLogger := zerolog.Nop()
	queue := new(MockDeliveryQueue)
	client := new(MockBotClient)
	h := NewVideoHandler(testConfig(0), queue, client, &nopLogger)

	queue.On("Enqueue", mock.Anything, mock.Anything).Return(0, delivery.ErrQueueClosed).Once()
	client.On("SendMessage", mock.Anything, textIs(messages.ShuttingDown())).Return(9, nil).Once()

	err := h.Handle(context.Background(), videoUpdate(domain.ChatPrivate, "x"))

	assert.ErrorIs(t, err, delivery.ErrQueueClosed)
	client.AssertExpectations(t)
}

func TestVideoHandler_NoVideo(t *testing.T) {
	nopLogger := zerolog.Nop()
	h := NewVideoHandler(testConfig(0), new(MockDeliveryQueue), new(MockBotClient), &nopLogger)

	assert.Error(t, h.Handle(context.Background(), &ports.BotUpdate{ChatID: 1}))
}
