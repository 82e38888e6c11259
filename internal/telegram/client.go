// Package telegram provides Telegram bot integration for the watch daemon.
//
// This package handles:
//   - Sending complaint notifications with inline keyboards
//   - Receiving and processing callback queries (button clicks)
//   - Handling user messages (resolution notes)
//   - Editing messages when complaint statuses change
//   - Long polling for updates
//
// Architecture:
//   - Client: Main struct with bot token and chat ID
//   - Update handler: Background goroutine for long polling
//   - Callback handler: Processes button clicks
//   - Message handler: Processes text messages (resolution notes)
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"resolveit/internal/api"
	"resolveit/internal/complaint"
	"resolveit/internal/lifecycle"
	"resolveit/internal/storage"
)

// PendingResolution stores information about a complaint awaiting a
// resolution note.
//
// When a user clicks "Mark as Resolved":
//  1. Store complaint info in pendingResolutions map
//  2. Send prompt message asking for a resolution note
//  3. Wait for the user's reply
//  4. Add the note as a progress note and resolve via the API
type PendingResolution struct {
	ComplaintID     string
	MessageID       string
	Title           string
	PromptMessageID int
}

// Client represents a Telegram bot client.
//
// The pendingResolutions map is protected by mutex so the update handler
// and the poll loop can touch it concurrently. A nil *Client is valid and
// turns every method into a no-op, which keeps the watcher code free of
// "is telegram configured" checks.
type Client struct {
	BotToken           string
	ChatID             string
	mu                 sync.Mutex
	pendingResolutions map[int64]PendingResolution
	DebugMode          bool
}

// Message represents a Telegram message for sending.
type Message struct {
	ChatID                string      `json:"chat_id"`
	Text                  string      `json:"text"`
	ParseMode             string      `json:"parse_mode"`
	DisableWebPagePreview bool        `json:"disable_web_page_preview"`
	ReplyMarkup           interface{} `json:"reply_markup,omitempty"`
	ReplyToMessageID      int         `json:"reply_to_message_id,omitempty"`
}

// InlineKeyboardMarkup represents an inline keyboard.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton represents a button in an inline keyboard.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// ForceReply prompts the user to reply to the bot's message.
type ForceReply struct {
	ForceReply            bool   `json:"force_reply"`
	Selective             bool   `json:"selective,omitempty"`
	InputFieldPlaceholder string `json:"input_field_placeholder,omitempty"`
}

// Update represents a Telegram update from getUpdates.
type Update struct {
	UpdateID      int              `json:"update_id"`
	Message       *IncomingMessage `json:"message,omitempty"`
	CallbackQuery *CallbackQuery   `json:"callback_query,omitempty"`
}

// IncomingMessage represents a received Telegram message.
type IncomingMessage struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      *Chat  `json:"chat,omitempty"`
	Text      string `json:"text"`
}

// Chat represents a Telegram chat.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// CallbackQuery represents a callback query from an inline button.
type CallbackQuery struct {
	ID      string           `json:"id"`
	From    User             `json:"from"`
	Message *IncomingMessage `json:"message"`
	Data    string           `json:"data"`
}

// User represents a Telegram user.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

// EditMessageRequest represents a request to edit a message.
type EditMessageRequest struct {
	ChatID      string                `json:"chat_id"`
	MessageID   string                `json:"message_id"`
	Text        string                `json:"text"`
	ParseMode   string                `json:"parse_mode"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// NewClient creates a new Telegram client.
//
// Returns nil when token or chat ID are empty, in which case every method
// is a silent no-op and notifications are disabled.
func NewClient(botToken, chatID string, debugMode bool) *Client {
	if botToken == "" || chatID == "" {
		log.Println("⚠️  Telegram not configured. Notifications disabled.")
		if botToken == "" {
			log.Println("   → Missing: TELEGRAM_BOT_TOKEN")
		}
		if chatID == "" {
			log.Println("   → Missing: TELEGRAM_CHAT_ID")
		}
		return nil
	}

	log.Println("✓ Telegram configured successfully")

	if debugMode {
		log.Println("🐛 DEBUG MODE ENABLED - API calls will be simulated")
	}

	return &Client{
		BotToken:           botToken,
		ChatID:             chatID,
		pendingResolutions: make(map[int64]PendingResolution),
		DebugMode:          debugMode,
	}
}

// doRequest handles the common logic for sending requests to the
// Telegram Bot API.
//
// Uses a 60s timeout because getUpdates long polling holds the
// connection open for up to 30 seconds.
func (c *Client) doRequest(method string, payload interface{}) (map[string]interface{}, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/%s", c.BotToken, method)

	telegramClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	resp, err := telegramClient.Post(apiURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if ok, exists := result["ok"].(bool); !exists || !ok {
		return nil, fmt.Errorf("Telegram API error: %v", result)
	}

	return result, nil
}

// messageIDFrom extracts the message_id from a sendMessage result.
func messageIDFrom(result map[string]interface{}) string {
	if msgResult, ok := result["result"].(map[string]interface{}); ok {
		if msgID, ok := msgResult["message_id"].(float64); ok {
			return fmt.Sprintf("%.0f", msgID)
		}
	}
	return ""
}

// SendComplaintMessage sends a new complaint notification.
//
// Message format:
//
//	📋 Complaint #42
//	📝 Wifi down in Block B
//	🏷 Infrastructure
//	👤 Alice
//	📅 15 Jan 2026
//	🔖 Status: New
//
// The message carries a "Mark as Resolved" inline button; the returned
// message ID is stored so status changes can edit the same message.
func (c *Client) SendComplaintMessage(cm complaint.Complaint) (string, error) {
	if c == nil {
		return "", nil
	}

	log.Println("   📨 Sending complaint to Telegram...")

	raisedBy := cm.RaisedBy
	if cm.Anonymous || raisedBy == "" {
		raisedBy = "Anonymous"
	}

	message := fmt.Sprintf(
		"📋 <b>Complaint #%d</b>\n\n"+
			"📝 %s\n"+
			"🏷 %s\n"+
			"👤 %s\n"+
			"📅 %s\n\n"+
			"🔖 Status: <b>%s</b>",
		cm.ID,
		cm.Title,
		cm.Category,
		raisedBy,
		cm.CreatedAt.Time.Format("02 Jan 2006"),
		cm.Status,
	)

	// Callback data format: "resolve:COMPLAINT_ID"
	keyboard := &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{
				{
					Text:         "✅ Mark as Resolved",
					CallbackData: fmt.Sprintf("resolve:%d", cm.ID),
				},
			},
		},
	}

	telegramMsg := Message{
		ChatID:                c.ChatID,
		Text:                  message,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
		ReplyMarkup:           keyboard,
	}

	result, err := c.doRequest("sendMessage", telegramMsg)
	if err != nil {
		return "", fmt.Errorf("failed to send Telegram message: %w", err)
	}

	log.Println("   ✓ Complaint successfully sent to Telegram")
	return messageIDFrom(result), nil
}

// SendStatusUpdate edits an earlier notification when a complaint's
// status changes, or sends a fresh message when no earlier message ID is
// known.
func (c *Client) SendStatusUpdate(cm complaint.Complaint, messageID, previousStatus string) error {
	if c == nil {
		return nil
	}

	state := lifecycle.FromBackend(cm.Status)
	text := fmt.Sprintf(
		"🔄 <b>Complaint #%d</b>\n\n"+
			"📝 %s\n"+
			"🔖 Status: %s → <b>%s</b>\n"+
			"📊 Progress: %d%%\n"+
			"🕐 %s",
		cm.ID,
		cm.Title,
		previousStatus,
		cm.Status,
		lifecycle.Progress(state),
		time.Now().Format("02 Jan 2006, 03:04 PM"),
	)

	if messageID == "" {
		msg := Message{
			ChatID:                c.ChatID,
			Text:                  text,
			ParseMode:             "HTML",
			DisableWebPagePreview: true,
		}
		_, err := c.doRequest("sendMessage", msg)
		return err
	}

	req := EditMessageRequest{
		ChatID:    c.ChatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: "HTML",
	}
	if state != lifecycle.StateResolved {
		req.ReplyMarkup = &InlineKeyboardMarkup{
			InlineKeyboard: [][]InlineKeyboardButton{
				{{Text: "✅ Mark as Resolved", CallbackData: fmt.Sprintf("resolve:%d", cm.ID)}},
			},
		}
	}

	_, err := c.doRequest("editMessageText", req)
	return err
}

// SendCriticalAlert sends a critical failure alert.
//
// This is called when all retry attempts fail and manual intervention is
// needed.
func (c *Client) SendCriticalAlert(errorType, errorMsg string, retryCount int) error {
	if c == nil {
		log.Println("   ⚠️  Telegram not configured, skipping critical alert")
		return nil
	}

	log.Println("   🚨 Sending critical alert to Telegram...")

	message := fmt.Sprintf(
		"🚨 <b>CRITICAL ALERT - RESOLVEIT WATCHER</b>\n\n"+
			"<b>Error Type:</b> %s\n"+
			"<b>Error Message:</b> %s\n"+
			"<b>Retry Attempts:</b> %d\n"+
			"<b>Timestamp:</b> %s\n\n"+
			"⚠️ <b>Action Required:</b> Please check the service immediately.",
		errorType,
		errorMsg,
		retryCount,
		time.Now().Format("2006-01-02 15:04:05"),
	)

	telegramMsg := Message{
		ChatID:                c.ChatID,
		Text:                  message,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}

	if _, err := c.doRequest("sendMessage", telegramMsg); err != nil {
		return fmt.Errorf("failed to send Telegram alert: %w", err)
	}

	log.Println("   ✓ Critical alert successfully sent to Telegram")
	return nil
}

// SendSummaryImage uploads a PNG summary chart via sendPhoto.
func (c *Client) SendSummaryImage(caption string, png []byte) error {
	if c == nil {
		return nil
	}

	log.Println("   🖼  Sending summary image to Telegram...")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("chat_id", c.ChatID)
	_ = w.WriteField("caption", caption)
	part, err := w.CreateFormFile("photo", "summary.png")
	if err != nil {
		return fmt.Errorf("failed to build photo upload: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return fmt.Errorf("failed to write photo bytes: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize photo upload: %w", err)
	}

	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendPhoto", c.BotToken)
	telegramClient := &http.Client{Timeout: 60 * time.Second}

	resp, err := telegramClient.Post(apiURL, w.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if ok, exists := result["ok"].(bool); !exists || !ok {
		return fmt.Errorf("Telegram API error: %v", result)
	}

	log.Println("   ✓ Summary image successfully sent to Telegram")
	return nil
}

// getUpdates fetches new updates using long polling (30s timeout).
func (c *Client) getUpdates(offset int) ([]Update, error) {
	if c == nil {
		return nil, nil
	}

	payload := map[string]interface{}{
		"offset":  offset,
		"timeout": 30,
	}

	result, err := c.doRequest("getUpdates", payload)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if resultArray, ok := result["result"].([]interface{}); ok {
		for _, item := range resultArray {
			jsonData, _ := json.Marshal(item)
			var update Update
			if err := json.Unmarshal(jsonData, &update); err == nil {
				updates = append(updates, update)
			}
		}
	}

	return updates, nil
}

// answerCallbackQuery acknowledges a button click.
func (c *Client) answerCallbackQuery(callbackQueryID string, text string) error {
	if c == nil {
		return nil
	}

	payload := map[string]interface{}{
		"callback_query_id": callbackQueryID,
		"text":              text,
		"show_alert":        false,
	}

	_, err := c.doRequest("answerCallbackQuery", payload)
	return err
}

// HandleUpdates listens for incoming updates and processes them.
//
// This runs in a background goroutine and handles:
//   - Callback queries (button clicks)
//   - Text messages (resolution notes)
//
// Update processing loop:
//  1. Long poll for updates (30s timeout)
//  2. Process each update
//  3. Advance offset to acknowledge processed updates
//  4. Repeat until context is cancelled
func (c *Client) HandleUpdates(ctx context.Context, client *api.Client, store *storage.Storage) {
	if c == nil {
		log.Println("⚠️  Telegram not configured, callback handler disabled")
		return
	}

	log.Println("✓ Starting Telegram callback handler...")
	offset := 0

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Telegram callback handler stopped")
			return
		default:
			updates, err := c.getUpdates(offset)
			if err != nil {
				log.Printf("⚠️  Error getting Telegram updates: %v\n", err)
				time.Sleep(5 * time.Second)
				continue
			}

			for _, update := range updates {
				if update.CallbackQuery != nil {
					c.handleCallbackQuery(update.CallbackQuery, store)
				} else if update.Message != nil {
					c.handleMessage(ctx, client, update.Message, store)
				}
				offset = update.UpdateID + 1
			}
		}
	}
}

// handleCallbackQuery processes a callback query from an inline button.
//
// Flow when the user clicks "Mark as Resolved":
//  1. Parse callback data to get the complaint ID
//  2. Store a pending resolution for this user
//  3. Send a prompt message asking for a resolution note
//  4. Wait for the user's text reply
//
// Clicking the button a second time cancels the pending resolution.
func (c *Client) handleCallbackQuery(query *CallbackQuery, store *storage.Storage) {
	log.Printf("📞 Received callback query: %s from %s\n", query.Data, query.From.FirstName)

	// Callback data format: "resolve:COMPLAINT_ID"
	parts := strings.SplitN(query.Data, ":", 2)
	if len(parts) != 2 || parts[0] != "resolve" {
		log.Println("⚠️  Invalid callback data format")
		c.answerCallbackQuery(query.ID, "Invalid action")
		return
	}

	complaintID := parts[1]

	messageID := store.MessageID(complaintID)
	if messageID == "" {
		log.Println("⚠️  Message ID not found for complaint")
		c.answerCallbackQuery(query.ID, "Error: Message not found")
		return
	}

	c.mu.Lock()
	if pending, exists := c.pendingResolutions[query.From.ID]; exists && pending.ComplaintID == complaintID {
		// Second click on the same button cancels
		delete(c.pendingResolutions, query.From.ID)
		c.mu.Unlock()

		if pending.PromptMessageID > 0 {
			deleteReq := struct {
				ChatID    string `json:"chat_id"`
				MessageID int    `json:"message_id"`
			}{
				ChatID:    c.ChatID,
				MessageID: pending.PromptMessageID,
			}
			c.doRequest("deleteMessage", deleteReq)
		}

		c.answerCallbackQuery(query.ID, "Resolution cancelled")
		log.Printf("❌ Resolution cancelled by toggle for user %s\n", query.From.FirstName)
		return
	}

	title := store.Title(complaintID)
	c.pendingResolutions[query.From.ID] = PendingResolution{
		ComplaintID: complaintID,
		MessageID:   messageID,
		Title:       title,
	}
	c.mu.Unlock()

	log.Printf("📝 Requesting resolution note for complaint %s from %s\n", complaintID, query.From.FirstName)

	originalMessageID, _ := strconv.Atoi(messageID)
	promptMsg := Message{
		ChatID:           c.ChatID,
		Text:             fmt.Sprintf("📝 Resolution note for complaint <b>#%s</b>\n%s:", complaintID, title),
		ParseMode:        "HTML",
		ReplyToMessageID: originalMessageID,
		ReplyMarkup: &ForceReply{
			ForceReply:            true,
			InputFieldPlaceholder: "Enter resolution details...",
		},
	}

	result, err := c.doRequest("sendMessage", promptMsg)
	if err != nil {
		log.Printf("⚠️  Failed to send prompt message: %v\n", err)
		c.answerCallbackQuery(query.ID, "Error sending prompt")
		return
	}

	var promptMsgID int
	if msgResult, ok := result["result"].(map[string]interface{}); ok {
		if msgID, ok := msgResult["message_id"].(float64); ok {
			promptMsgID = int(msgID)
		}
	}

	c.mu.Lock()
	if pending, exists := c.pendingResolutions[query.From.ID]; exists {
		pending.PromptMessageID = promptMsgID
		c.pendingResolutions[query.From.ID] = pending
	}
	c.mu.Unlock()

	c.answerCallbackQuery(query.ID, "Please send your resolution note")
	log.Printf("✓ Prompted %s for a resolution note\n", query.From.FirstName)
}

// handleMessage processes regular text messages (resolution notes).
//
// Flow when the user sends a resolution note:
//  1. Check if the user has a pending resolution
//  2. Delete the prompt message (keep chat clean)
//  3. Add the note as a progress note and resolve via the API
//  4. Edit the original Telegram message to show RESOLVED
//  5. Remove the complaint from storage
func (c *Client) handleMessage(ctx context.Context, client *api.Client, message *IncomingMessage, store *storage.Storage) {
	if message.From == nil || message.Text == "" {
		return
	}

	c.mu.Lock()
	pending, exists := c.pendingResolutions[message.From.ID]
	if !exists {
		c.mu.Unlock()
		return
	}

	promptMsgID := pending.PromptMessageID
	delete(c.pendingResolutions, message.From.ID)
	c.mu.Unlock()

	if promptMsgID > 0 {
		deleteReq := struct {
			ChatID    string `json:"chat_id"`
			MessageID int    `json:"message_id"`
		}{
			ChatID:    c.ChatID,
			MessageID: promptMsgID,
		}
		c.doRequest("deleteMessage", deleteReq)
	}

	if strings.EqualFold(strings.TrimSpace(message.Text), "cancel") {
		log.Printf("❌ Resolution cancelled by keyword for user %s\n", message.From.FirstName)
		msg := Message{
			ChatID:    c.ChatID,
			Text:      "❌ Resolution cancelled.",
			ParseMode: "HTML",
		}
		c.doRequest("sendMessage", msg)
		return
	}

	log.Printf("📝 Received resolution note from %s for complaint %s\n", message.From.FirstName, pending.ComplaintID)

	if !store.Exists(pending.ComplaintID) {
		log.Printf("⚠️  Complaint %s was already resolved\n", pending.ComplaintID)
		errorMsg := Message{
			ChatID:    c.ChatID,
			Text:      fmt.Sprintf("ℹ️ Complaint <b>#%s</b> was already resolved.", pending.ComplaintID),
			ParseMode: "HTML",
		}
		c.doRequest("sendMessage", errorMsg)
		return
	}

	id, err := strconv.ParseInt(pending.ComplaintID, 10, 64)
	if err != nil {
		log.Printf("⚠️  Invalid complaint ID %q\n", pending.ComplaintID)
		return
	}

	log.Printf("🌐 Marking complaint %s as resolved...\n", pending.ComplaintID)

	if c.DebugMode {
		log.Printf("🐛 DEBUG: would resolve complaint %s with note %q\n", pending.ComplaintID, message.Text)
	} else {
		if err := client.AddProgressNote(ctx, id, message.Text); err != nil {
			log.Printf("⚠️  Failed to add progress note: %v\n", err)
		}
		if err := client.Resolve(ctx, id); err != nil {
			log.Printf("⚠️  Failed to resolve complaint: %v\n", err)
			errorMsg := Message{
				ChatID:    c.ChatID,
				Text:      fmt.Sprintf("❌ Failed to resolve complaint #%s: %v\nPlease try again or resolve it in the portal.", pending.ComplaintID, err),
				ParseMode: "HTML",
			}
			c.doRequest("sendMessage", errorMsg)
			return
		}
	}

	log.Printf("✅ Successfully resolved complaint %s\n", pending.ComplaintID)

	resolvedMessage := fmt.Sprintf(
		"✅ <b>RESOLVED</b>\n\n"+
			"Complaint #%s\n"+
			"📝 %s\n"+
			"🕐 %s",
		pending.ComplaintID,
		pending.Title,
		time.Now().Format("02 Jan 2006, 03:04 PM"),
	)

	req := EditMessageRequest{
		ChatID:      c.ChatID,
		MessageID:   pending.MessageID,
		Text:        resolvedMessage,
		ParseMode:   "HTML",
		ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{}},
	}

	if _, err := c.doRequest("editMessageText", req); err != nil {
		log.Printf("⚠️  Failed to edit message: %v\n", err)
	}

	removed, err := store.RemoveIfExists(pending.ComplaintID)
	if err != nil {
		log.Printf("⚠️  Failed to remove from storage: %v\n", err)
	} else if !removed {
		log.Printf("ℹ️  Complaint %s was already removed from storage\n", pending.ComplaintID)
	}

	log.Printf("✓ Successfully resolved complaint %s with note\n", pending.ComplaintID)
}
