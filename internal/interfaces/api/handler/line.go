package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"binday/internal/application/dto"
	"binday/internal/application/service"
	"binday/internal/infrastructure/line"
	appErrors "binday/internal/pkg/errors"
	"binday/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// LineHandler handles incoming LINE webhook events and routes user actions
// into the dispatch coordinator.
type LineHandler struct {
	lineClient  *line.Client
	dispatchSvc service.DispatchService
	scheduleSvc service.ScheduleService
	prefsSvc    service.PreferencesService
	log         logger.Logger
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(
	lineClient *line.Client,
	dispatchSvc service.DispatchService,
	scheduleSvc service.ScheduleService,
	prefsSvc service.PreferencesService,
	log logger.Logger,
) *LineHandler {
	return &LineHandler{
		lineClient:  lineClient,
		dispatchSvc: dispatchSvc,
		scheduleSvc: scheduleSvc,
		prefsSvc:    prefsSvc,
		log:         log,
	}
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		h.log.Info(fmt.Sprintf("Processing event type: %s", event.Type))
		switch event.Type {
		case linebot.EventTypeFollow:
			h.handleFollowEvent(ctx, event)
		case linebot.EventTypeMessage:
			h.handleMessageEvent(ctx, event)
		case linebot.EventTypePostback:
			h.handlePostbackEvent(ctx, event)
		default:
			h.log.Info(fmt.Sprintf("Unhandled event type: %s", event.Type))
		}
	}

	return c.String(http.StatusOK, "OK")
}

// handleFollowEvent binds the follower as the reminder recipient and makes
// sure preferences exist.
func (h *LineHandler) handleFollowEvent(ctx context.Context, event *linebot.Event) {
	userID := event.Source.UserID
	replyToken := event.ReplyToken
	h.log.Info(fmt.Sprintf("User %s followed the bot.", userID))

	h.lineClient.SetUserID(userID)
	if _, err := h.prefsSvc.Get(ctx); err != nil {
		h.log.Error("Failed to initialize reminder preferences on follow", err)
		h.replyWithError(replyToken, "Could not initialize your reminder settings.")
		return
	}

	welcome := linebot.NewTextMessage("I will remind you of upcoming bin days. Send \"list\" to see the next collections.")
	if err := h.lineClient.SendMessages(replyToken, welcome); err != nil {
		h.log.Error(fmt.Sprintf("Failed to send follow reply to user %s", userID), err)
	}
}

// handleMessageEvent processes text commands.
func (h *LineHandler) handleMessageEvent(ctx context.Context, event *linebot.Event) {
	replyToken := event.ReplyToken

	message, ok := event.Message.(*linebot.TextMessage)
	if !ok {
		h.log.Info("Received non-text message, ignoring")
		return
	}

	switch strings.ToLower(strings.TrimSpace(message.Text)) {
	case "list", "upcoming":
		h.sendUpcomingList(ctx, replyToken)
	case "refresh":
		if _, err := h.dispatchSvc.RefreshAndResync(ctx); err != nil {
			if errors.Is(err, appErrors.ErrNetworkUnavailable) {
				h.replyWithError(replyToken, "Could not reach the waste calendar. Try again later.")
				return
			}
			h.replyWithError(replyToken, "Refreshing the schedule failed.")
			return
		}
		h.reply(replyToken, "Schedule refreshed.")
	default:
		h.reply(replyToken, "Commands: \"list\" shows the next collections, \"refresh\" fetches the latest schedule.")
	}
}

// sendUpcomingList replies with the upcoming collections. Stale local data
// is still shown.
func (h *LineHandler) sendUpcomingList(ctx context.Context, replyToken string) {
	days, err := h.scheduleSvc.Load(ctx)
	if err != nil && !errors.Is(err, appErrors.ErrStaleData) {
		if errors.Is(err, appErrors.ErrDataUnavailable) {
			h.reply(replyToken, "No schedule available yet. Send \"refresh\" to fetch one.")
			return
		}
		h.replyWithError(replyToken, "Could not load the schedule.")
		return
	}

	if len(days) == 0 {
		h.reply(replyToken, "No upcoming collections.")
		return
	}
	var b strings.Builder
	b.WriteString("Upcoming collections:")
	for _, day := range dto.ToBinDayResponseList(days) {
		b.WriteString(fmt.Sprintf("\n%s  %s", day.CollectionDate, day.KindDisplayName))
	}
	h.reply(replyToken, b.String())
}

// handlePostbackEvent routes reminder actions (done, snooze, tonight).
func (h *LineHandler) handlePostbackEvent(ctx context.Context, event *linebot.Event) {
	replyToken := event.ReplyToken
	data := event.Postback.Data
	h.log.Info(fmt.Sprintf("Received postback: %s", data))

	values, err := url.ParseQuery(data)
	if err != nil {
		h.log.Error(fmt.Sprintf("Failed to parse postback data %q", data), err)
		h.replyWithError(replyToken, "Invalid action.")
		return
	}
	action := values.Get("action")
	identity := values.Get("identity")
	if identity == "" {
		h.replyWithError(replyToken, "Invalid action.")
		return
	}

	switch action {
	case "done":
		if err := h.dispatchSvc.MarkDone(ctx, dto.MarkDoneRequest{Identity: identity}); err != nil {
			h.replyActionError(replyToken, identity, err)
			return
		}
		h.reply(replyToken, "Done. Reminder acknowledged.")
	case "snooze":
		isMorning := values.Get("category") == "MORNING"
		at, err := h.dispatchSvc.Snooze(ctx, dto.SnoozeRequest{Identity: identity, IsMorning: isMorning})
		if err != nil {
			h.replyActionError(replyToken, identity, err)
			return
		}
		h.reply(replyToken, fmt.Sprintf("Snoozed. I will remind you again at %s.", at.Local().Format("15:04")))
	case "tonight":
		at, err := h.dispatchSvc.RemindTonight(ctx, dto.RemindTonightRequest{Identity: identity})
		if err != nil {
			h.replyActionError(replyToken, identity, err)
			return
		}
		h.reply(replyToken, fmt.Sprintf("I will remind you tonight at %s.", at.Local().Format("15:04")))
	default:
		h.log.Warn(fmt.Sprintf("Unknown postback action %q", action))
		h.replyWithError(replyToken, "Unknown action.")
	}
}

func (h *LineHandler) replyActionError(replyToken, identity string, err error) {
	if errors.Is(err, appErrors.ErrBinDayNotFound) {
		h.reply(replyToken, "That collection is no longer on the schedule.")
		return
	}
	h.log.Error(fmt.Sprintf("Reminder action for %s failed", identity), err)
	h.replyWithError(replyToken, "The action failed. Please try again.")
}

func (h *LineHandler) reply(replyToken, text string) {
	if err := h.lineClient.SendMessages(replyToken, linebot.NewTextMessage(text)); err != nil {
		h.log.Error("Failed to send reply message", err)
	}
}

func (h *LineHandler) replyWithError(replyToken, text string) {
	h.reply(replyToken, text)
}
