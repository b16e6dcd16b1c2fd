// Package notify pushes short fleet events to the administrator's Telegram
// chat. Without a bot token every notification is dropped.
package notify

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"taxipark/config"
	"taxipark/pkg/logger"
	"taxipark/pkg/models"
)

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type telegramNotifier struct {
	bot   *tele.Bot
	admin tele.Recipient
	log   logger.ILogger
}

// New returns a Telegram notifier when TG_BOT_TOKEN and ADMIN_ID are set and a
// no-op otherwise.
func New(cfg config.Config, log logger.ILogger) (Notifier, error) {
	if cfg.TelegramBotToken == "" || cfg.AdminID == 0 {
		log.Info("telegram notifications disabled")
		return Nop{}, nil
	}

	b, err := tele.NewBot(tele.Settings{
		Token:   cfg.TelegramBotToken,
		Offline: true,
	})
	if err != nil {
		return nil, err
	}

	return &telegramNotifier{
		bot:   b,
		admin: &tele.User{ID: cfg.AdminID},
		log:   log,
	}, nil
}

func (n *telegramNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.bot.Send(n.admin, text); err != nil {
		n.log.Error("failed to send telegram notification", logger.Error(err))
		return err
	}
	return nil
}

type Nop struct{}

func (Nop) Notify(context.Context, string) error { return nil }

func DriverRegistered(d *models.Driver) string {
	return fmt.Sprintf("🚖 New driver: %s\n🪪 License: %s", d, d.LicenseNumber)
}

func CarCreated(c *models.Car) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚗 New car: %s", c)
	if c.Manufacturer != nil {
		fmt.Fprintf(&b, "\n🏭 %s", c.Manufacturer)
	}
	if len(c.Drivers) > 0 {
		names := make([]string, 0, len(c.Drivers))
		for _, d := range c.Drivers {
			names = append(names, d.Username)
		}
		fmt.Fprintf(&b, "\n👥 %s", strings.Join(names, ", "))
	}
	return b.String()
}
