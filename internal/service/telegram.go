package service

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"btcsignal-go/internal/model"
	"btcsignal-go/internal/risk"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DashboardSource exposes the latest published dashboard
type DashboardSource interface {
	Current() *model.Dashboard
}

type TelegramService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	source DashboardSource
}

func NewTelegramService(token, chatID string) (*TelegramService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Printf("✅ Telegram bot authorized: %s", bot.Self.UserName)

	return &TelegramService{
		bot:    bot,
		chatID: parseChatID(chatID),
	}, nil
}

// StartCommands answers bot commands from the given dashboard source
func (s *TelegramService) StartCommands(source DashboardSource) {
	s.source = source
	SafeGo("telegram-commands", s.handleCommands)
	log.Println("✅ Telegram command handler started")
}

// Stop ends the long-poll update loop
func (s *TelegramService) Stop() {
	s.bot.StopReceivingUpdates()
}

// handleCommands listens for and processes Telegram commands
func (s *TelegramService) handleCommands() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := s.bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}

		command := update.Message.Command()
		chatID := update.Message.Chat.ID
		log.Printf("📱 /%s command executed", command)

		switch command {
		case "start", "help":
			s.sendMessage(chatID, helpMessage)
		case "signal":
			s.handleSignal(chatID)
		case "levels":
			s.handleLevels(chatID)
		case "risk":
			s.handleRisk(chatID, update.Message.CommandArguments())
		case "analysis":
			s.handleAnalysis(chatID)
		default:
			s.sendMessage(chatID, "Comando desconhecido. Use /help para ver os comandos disponíveis.")
		}
	}
}

func (s *TelegramService) current(chatID int64) *model.Dashboard {
	var d *model.Dashboard
	if s.source != nil {
		d = s.source.Current()
	}
	if !d.HasSignal() {
		s.sendMessage(chatID, "⏳ Ainda sem sinal. Aguarde o carregamento do histórico.")
		return nil
	}
	return d
}

func (s *TelegramService) handleSignal(chatID int64) {
	if d := s.current(chatID); d != nil {
		s.sendMessage(chatID, formatSignalMessage(d))
	}
}

func (s *TelegramService) handleLevels(chatID int64) {
	if d := s.current(chatID); d != nil {
		s.sendMessage(chatID, formatLevelsMessage(d))
	}
}

func (s *TelegramService) handleAnalysis(chatID int64) {
	d := s.current(chatID)
	if d == nil {
		return
	}
	if d.Analysis == nil {
		s.sendMessage(chatID, "🤖 Análise de IA indisponível no momento.")
		return
	}
	s.sendMessage(chatID, formatAnalysisMessage(d.Analysis))
}

// handleRisk expects "/risk <bankroll> <leverage>" or "/risk <bankroll> conservative|aggressive"
func (s *TelegramService) handleRisk(chatID int64, args string) {
	d := s.current(chatID)
	if d == nil {
		return
	}

	fields := strings.Fields(args)
	if len(fields) != 2 {
		s.sendMessage(chatID, "Uso: /risk &lt;banca&gt; &lt;alavancagem|conservative|aggressive&gt;")
		return
	}
	bankroll, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		s.sendMessage(chatID, "Banca inválida.")
		return
	}

	var (
		projection model.RiskProjection
		ok         bool
	)
	if profile, perr := risk.ParseProfile(fields[1]); perr == nil {
		projection, ok = risk.CalculateByProfile(bankroll, profile, d.QuoteRate, d.Signal)
	} else {
		leverage, lerr := strconv.ParseFloat(fields[1], 64)
		if lerr != nil {
			s.sendMessage(chatID, "Alavancagem inválida.")
			return
		}
		projection, ok = risk.Calculate(risk.Input{Bankroll: bankroll, Leverage: leverage, QuoteRate: d.QuoteRate}, d.Signal)
	}

	if !ok {
		s.sendMessage(chatID, "⚠️ Cálculo indisponível para o sinal atual.")
		return
	}
	s.sendMessage(chatID, formatRiskMessage(d.Signal, projection))
}

func (s *TelegramService) sendMessage(chatID int64, message string) {
	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = "HTML"
	if _, err := s.bot.Send(msg); err != nil {
		log.Printf("⚠️  [Telegram] Failed to reply: %v", err)
	}
}

// SendSignal sends a signal change notification to the configured chat
func (s *TelegramService) SendSignal(d *model.Dashboard) error {
	if !d.HasSignal() {
		return nil
	}
	log.Printf("📤 [Telegram] Sending %s notification...", d.Signal.Signal)
	if err := s.SendMessage(formatSignalMessage(d)); err != nil {
		return err
	}
	log.Printf("📲 Telegram notification sent for %s", d.Signal.Signal)
	return nil
}

// SendMessage sends a generic message to Telegram
func (s *TelegramService) SendMessage(message string) error {
	msg := tgbotapi.NewMessage(s.chatID, message)
	msg.ParseMode = "HTML"

	_, err := s.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}

// parseChatID converts string chat ID to int64
func parseChatID(chatIDStr string) int64 {
	var chatID int64
	fmt.Sscanf(chatIDStr, "%d", &chatID)
	return chatID
}
