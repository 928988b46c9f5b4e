package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vnxcius/sign-backend/internal/database/model"
)

var ErrNotConfigured = errors.New("discord: bot token and channel id are required")

// MessageSender is the slice of *discordgo.Session the notifier needs.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Notifier struct {
	sender    MessageSender
	channelID string
	location  *time.Location
	caser     cases.Caser
}

func NewNotifier(sender MessageSender, channelID string, location *time.Location) *Notifier {
	if location == nil {
		location = time.UTC
	}
	return &Notifier{
		sender:    sender,
		channelID: channelID,
		location:  location,
		caser:     cases.Upper(language.English),
	}
}

// NewSession builds a REST-only session; no gateway connection is opened.
func NewSession(botToken, channelID string) (*discordgo.Session, error) {
	if botToken == "" || channelID == "" {
		return nil, ErrNotConfigured
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return session, nil
}

// SurveyCreated posts a one-line notice. Personal data such as the
// registration number and the signature stays out of the channel.
func (n *Notifier) SurveyCreated(ctx context.Context, survey model.Survey) error {
	message := fmt.Sprintf("`%s NEW SURVEY: TYPE %s SIGNED BY %s`",
		survey.CreatedAt.In(n.location).Format("02/01/2006 15:04:05"),
		n.caser.String(string(survey.Type)),
		n.caser.String(survey.Relationship),
	)

	if _, err := n.sender.ChannelMessageSend(n.channelID, message); err != nil {
		slog.ErrorContext(ctx, "Failed to send survey notification to channel", "error", err, "survey_id", survey.ID)
		return err
	}
	return nil
}
