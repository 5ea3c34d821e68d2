package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"binday/internal/application/dto"
	"binday/internal/pkg/logger"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Client wraps the linebot.Client and adapts it to the notification Sender
// contract.
type Client struct {
	*linebot.Client
	userID string
	log    logger.Logger
}

var (
	lineClientInstance *Client
	once               sync.Once
)

// NewClient creates a new singleton instance of the LINE Bot client.
// It reads credentials from environment variables.
func NewClient(log logger.Logger) *Client {
	once.Do(func() {
		channelSecret := os.Getenv("CHANNEL_SECRET")
		channelToken := os.Getenv("CHANNEL_ACCESS_TOKEN")
		userID := os.Getenv("LINE_USER_ID")

		if channelSecret == "" || channelToken == "" {
			log.Error("🔴 ERROR: CHANNEL_SECRET and CHANNEL_ACCESS_TOKEN environment variables must be set", nil)
			os.Exit(1)
		}
		if userID == "" {
			log.Warn("LINE_USER_ID not set; reminders cannot be pushed until a user follows the bot")
		}

		bot, err := linebot.New(channelSecret, channelToken)
		if err != nil {
			log.Error("🔴 ERROR: Failed to create LINE Bot client", err)
			os.Exit(1)
		}
		log.Info("Successfully created LINE Bot client.")
		lineClientInstance = &Client{
			Client: bot,
			userID: userID,
			log:    log,
		}
	})
	return lineClientInstance
}

// SetUserID records the user reminders are pushed to (single active user).
func (c *Client) SetUserID(userID string) {
	c.userID = userID
}

// Authorize verifies the push channel is usable. Credential rejections are
// reported as denial, other failures as errors.
func (c *Client) Authorize(ctx context.Context) (bool, error) {
	if c.userID == "" {
		return false, nil
	}
	_, err := c.GetBotInfo().WithContext(ctx).Do()
	if err != nil {
		var apiErr *linebot.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
			c.log.Warn("LINE channel credentials rejected, treating as authorization denied")
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Send pushes a reminder notification. The attached postback actions depend
// on the reminder category: every reminder offers done and snooze, and
// day-before reminders that still allow it offer "remind me tonight".
func (c *Client) Send(content dto.NotificationContent, identity string) error {
	actions := []linebot.TemplateAction{
		linebot.NewPostbackAction("Done", "action=done&identity="+identity, "", "", "", ""),
		linebot.NewPostbackAction("Snooze 30 min", "action=snooze&identity="+identity+"&category="+content.Category.String(), "", "", "", ""),
	}
	if content.Category.OffersTonight() {
		actions = append(actions, linebot.NewPostbackAction("Remind me tonight", "action=tonight&identity="+identity, "", "", "", ""))
	}

	template := linebot.NewButtonsTemplate("", content.Title, content.Body, actions...)
	message := linebot.NewTemplateMessage(fmt.Sprintf("%s: %s", content.Title, content.Body), template)
	if _, err := c.PushMessage(c.userID, message).Do(); err != nil {
		return err
	}
	c.log.Debug("Successfully sent reminder push message.")
	return nil
}

// SendText pushes a plain text message.
func (c *Client) SendText(text string) error {
	if _, err := c.PushMessage(c.userID, linebot.NewTextMessage(text)).Do(); err != nil {
		return err
	}
	return nil
}

// SendMessages sends one or more messages using the ReplyMessage API.
func (c *Client) SendMessages(replyToken string, messages ...linebot.SendingMessage) error {
	if _, err := c.ReplyMessage(replyToken, messages...).Do(); err != nil {
		return err
	}
	c.log.Debug("Successfully sent reply message.")
	return nil
}

// ParseRequest parses incoming webhook requests.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.Client.ParseRequest(r)
}
