package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ssq-predictor/internal/config"
	"ssq-predictor/internal/logger"
	"ssq-predictor/internal/service"
)

// Bot Telegram推送机器人：在私聊中响应预测命令
type Bot struct {
	api           *tgbotapi.BotAPI
	svc           *service.Service
	datasetSize   int
	updateChannel tgbotapi.UpdatesChannel
	stopChannel   chan bool
}

// NewBot 创建新的Telegram机器人
func NewBot(cfg *config.Telegram, svc *service.Service, datasetSize int) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}

	bot.Debug = false
	logger.Infof("Telegram bot authorized on account: %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(cfg.Timeout.Seconds())
	updates := bot.GetUpdatesChan(u)

	return &Bot{
		api:           bot,
		svc:           svc,
		datasetSize:   datasetSize,
		updateChannel: updates,
		stopChannel:   make(chan bool),
	}, nil
}

// Start 启动机器人
func (b *Bot) Start() {
	go b.handleUpdates()
	logger.Info("Telegram bot started")
}

// Stop 停止机器人
func (b *Bot) Stop() {
	b.stopChannel <- true
	b.api.StopReceivingUpdates()
	logger.Info("Telegram bot stopped")
}

// handleUpdates 处理更新，只响应私聊消息
func (b *Bot) handleUpdates() {
	for {
		select {
		case update := <-b.updateChannel:
			if update.Message != nil && update.Message.Chat.IsPrivate() {
				go b.handleMessage(update.Message)
			}
		case <-b.stopChannel:
			return
		}
	}
}

// handleMessage 处理消息
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if !message.IsCommand() {
		b.reply(message.Chat.ID, helpMessage())
		return
	}

	switch message.Command() {
	case "start", "help":
		b.reply(message.Chat.ID, helpMessage())
	case "predict":
		b.handlePredict(message)
	case "algorithms":
		b.reply(message.Chat.ID, algorithmsMessage(b.svc.Registry().Algorithms()))
	default:
		b.reply(message.Chat.ID, "未知命令，发送 /help 查看可用命令")
	}
}

// handlePredict 执行预测命令，可附带算法名参数，如 /predict trend
func (b *Bot) handlePredict(message *tgbotapi.Message) {
	algorithm := strings.TrimSpace(message.CommandArguments())
	if algorithm == "" {
		algorithm = "ensemble"
	}

	if _, exists := b.svc.Registry().Get(algorithm); !exists {
		b.reply(message.Chat.ID, fmt.Sprintf("不支持的算法：%s，发送 /algorithms 查看可用算法", algorithm))
		return
	}

	prediction := b.svc.Predict(algorithm, b.datasetSize, fmt.Sprintf("tg-%d", message.MessageID))
	b.reply(message.Chat.ID, predictionMessage(prediction))
}

// reply 发送Markdown消息
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.api.Send(msg); err != nil {
		logger.Errorf("Failed to send telegram message: %v", err)
	}
}
