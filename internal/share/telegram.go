package share

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	gotgbot "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/sirupsen/logrus"
)

type documentSender interface {
	SendDocument(chatId int64, document gotgbot.InputFileOrString, opts *gotgbot.SendDocumentOpts) (*gotgbot.Message, error)
}

// TelegramSharer posts the document to the configured chat. The document's
// recipient is never used as a chat ID.
type TelegramSharer struct {
	bot    documentSender
	chatID int64
	logger *logrus.Logger
}

func NewTelegramSharer(token string, chatID int64, logger *logrus.Logger) (*TelegramSharer, error) {
	bot, err := gotgbot.NewBot(token, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new bot: %w", err)
	}
	return &TelegramSharer{bot: bot, chatID: chatID, logger: logger}, nil
}

func (t *TelegramSharer) Share(ctx context.Context, doc Document) error {
	if err := doc.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	chatID := t.chatID
	if strings.TrimSpace(doc.Recipient) != "" {
		t.logger.Debug("Ignoring recipient, Telegram shares go to the configured chat")
	}
	if chatID == 0 {
		return ErrNoRecipient
	}

	_, err := t.bot.SendDocument(chatID, gotgbot.InputFileByReader(doc.Filename, bytes.NewReader(doc.Body)), &gotgbot.SendDocumentOpts{
		Caption: fmt.Sprintf("📄 %s\n\nFile: %s", doc.Title, doc.Filename),
	})
	if err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}

	t.logger.WithField("chat_id", chatID).Infof("Shared %s on Telegram", doc.Filename)
	return nil
}
