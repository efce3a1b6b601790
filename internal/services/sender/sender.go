// Package sender отправляет письма по сообщениям из очередей уведомлений.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/lib/smtp"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Service отправляет чеки об оплате и напоминания о подписках.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, transport smtp.TransportInterface) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// HandlePurchase отправляет письмо о завершённой покупке.
// Нечитаемые сообщения подтверждаются и отбрасываются, чтобы не крутиться в очереди.
func (s *Service) HandlePurchase(body []byte) error {
	var msg models.PurchaseCompleted
	if err := json.Unmarshal(body, &msg); err != nil {
		s.log.Error("failed to unmarshal purchase message, dropping", sl.Err(err))
		return nil
	}
	if msg.Email == "" {
		s.log.Warn("purchase message without email, dropping", slog.String("transaction_id", msg.TransactionID))
		return nil
	}

	return s.send(smtp.Message{
		To:      msg.Email,
		Subject: "Спасибо за покупку",
		Body: fmt.Sprintf("Здравствуйте, %s!\n\nОплата прошла успешно.\n%s: %s\nСумма: %s\nНомер транзакции: %s\n",
			msg.Username, itemLabel(msg.ItemType), msg.ItemID, formatAmount(msg.Amount, msg.Currency), msg.TransactionID),
	})
}

// HandleExpiring отправляет напоминание о скором окончании подписки на артиста.
func (s *Service) HandleExpiring(body []byte) error {
	var msg models.ExpiringSubscription
	if err := json.Unmarshal(body, &msg); err != nil {
		s.log.Error("failed to unmarshal expiring message, dropping", sl.Err(err))
		return nil
	}
	if msg.Email == "" {
		s.log.Warn("expiring message without email, dropping")
		return nil
	}

	return s.send(smtp.Message{
		To:      msg.Email,
		Subject: "Подписка скоро закончится",
		Body: fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка на %s действует до %s.\nПродлите её, чтобы не потерять доступ.\n",
			msg.Username, msg.ArtistName, msg.ValidUntil.UTC().Format("02.01.2006 15:04 MST")),
	})
}

func (s *Service) send(msg smtp.Message) error {
	if err := smtp.Send(s.transport, msg); err != nil {
		s.log.Error("failed to send email", slog.String("to", msg.To), sl.Err(err))
		return err
	}
	s.log.Info("email sent successfully", slog.String("to", msg.To))
	return nil
}

func itemLabel(t models.ItemType) string {
	switch t {
	case models.ItemSong:
		return "Песня"
	case models.ItemAlbum:
		return "Альбом"
	case models.ItemArtistSubscription:
		return "Подписка на артиста"
	}
	return string(t)
}

// formatAmount печатает сумму в минимальных единицах валюты как 12.34 USD.
func formatAmount(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, strings.ToUpper(currency))
}
