package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lensinspect/internal/container"
	"lensinspect/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот контроля качества оптических линз.

📸 Отправьте мне снимок линзы, и я найду дефекты поверхности
и вынесу вердикт: годная или брак.

📋 Команды:
/check — начать проверку линзы
/blur N — размер ядра оценки фона
/threshold N — порог выделения дефектов
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте снимок линзы в оттенках серого
2️⃣ Бот выделит активную зону, выровняет подсветку и найдёт дефекты
3️⃣ Вы получите вердикт, список дефектов и снимок с разметкой

💡 Настройка чувствительности:
• /blur N — чем больше ядро, тем плавнее оценка фона
• /threshold N — чем выше порог, тем меньше кандидатов

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте снимок линзы для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте снимок линзы для проверки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую снимок..."
	msgNoLens          = "⚠️ Активная зона линзы не найдена. Проверьте подсветку и кадрирование."
	msgProcessingError = "⚠️ Не удалось обработать снимок. Попробуйте сделать другой."
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		container: c,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.container.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.container.UserService.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		b.container.UserService.BeginCheck(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		b.container.UserService.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	case "blur":
		b.handleTunable(msg, "blur")

	case "threshold":
		b.handleTunable(msg, "threshold")

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleTunable разбирает аргумент /blur и /threshold и сохраняет параметр.
func (b *Bot) handleTunable(msg *tgbotapi.Message, name string) {
	arg := strings.TrimSpace(msg.CommandArguments())
	value, err := strconv.Atoi(arg)
	if err != nil || value < 1 {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("❓ Использование: /%s N, где N — целое число больше нуля.", name))
		return
	}

	var params entity.InspectionParams
	if name == "blur" {
		params = b.container.InspectionService.SetBlurSize(msg.From.ID, value)
	} else {
		params = b.container.InspectionService.SetThreshold(msg.From.ID, value)
	}

	b.sendMessage(msg.Chat.ID, fmt.Sprintf("⚙️ Параметры: ядро фона %d, порог %d.", params.BlurSize, params.Threshold))
}

// handlePhoto обрабатывает входящий снимок линзы
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	b.container.UserService.SetState(ctx, user.ID, user.ChatID, entity.StateProcessing)

	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		b.container.UserService.Cancel(ctx, user.ID, user.ChatID)
		return
	}

	output, err := b.container.InspectionService.ProcessLensPhoto(ctx, user.ID, imageData)
	if err != nil {
		log.Printf("Error inspecting photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		b.container.UserService.Cancel(ctx, user.ID, user.ChatID)
		return
	}

	if !output.Result.LensFound {
		b.sendMessage(msg.Chat.ID, msgNoLens)
	} else {
		b.sendMessage(msg.Chat.ID, output.Summary)
	}

	if len(output.Annotated) > 0 {
		photoMsg := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{
			Name:  "annotated.jpg",
			Bytes: output.Annotated,
		})
		if _, err := b.api.Send(photoMsg); err != nil {
			log.Printf("Error sending annotated photo: %v", err)
		}
	}

	// Возвращаем в главное меню
	b.container.UserService.Cancel(ctx, user.ID, user.ChatID)
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
