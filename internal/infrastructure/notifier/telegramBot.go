package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"broker_market/internal/domain/entity"
	"broker_market/pkg/contextx"
	"broker_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// TelegramBot pushes settlement summaries to an operator chat.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run consumes settlement events until the channel closes or the context ends.
func (b *TelegramBot) Run(ctx context.Context, settlements <-chan entity.Settlement) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case settlement, ok := <-settlements:
			if !ok {
				return nil
			}
			if err := b.SendSettlement(ctx, &settlement); err != nil {
				logger(ctx).Error("failed to send settlement summary", logx.Error(err))
			}
		}
	}
}

func (b *TelegramBot) SendSettlement(ctx context.Context, settlement *entity.Settlement) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "💼 <b>Settlement %s</b>\n", settlement.BatchID)
	fmt.Fprintf(&sb, "👤 <b>Owner:</b> %s\n\n", settlement.OwnerID)

	for _, group := range settlement.Groups {
		icon := "🏪"
		if group.Marketplace {
			icon = "📈"
		}
		fmt.Fprintf(&sb,
			"%s <b>%s</b> — %d items, gross %d, tax %d, net %d\n",
			icon, group.DestinationName,
			group.ItemCount, group.TotalGross, group.TotalTax, group.TotalProfit,
		)
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		sb.String(),
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText sends a plain text message.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
