// Command forwarder listens to Discord channels and relays every new
// message to the relaycast ingest endpoint. On startup it forwards the most
// recent messages of each configured channel so a freshly started server has
// current and previous values to serve.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	apimw "github.com/eldtechnologies/relaycast/internal/api/middleware"
	"github.com/eldtechnologies/relaycast/internal/config"
	"github.com/eldtechnologies/relaycast/internal/normalize"
)

// rawRecord is the wire shape of one forwarded message. The server's
// normalizer owns defaulting; the forwarder just sends what it has.
type rawRecord struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

type ingestPayload struct {
	Channel  string      `json:"channel"`
	Messages []rawRecord `json:"messages"`
}

type forwarder struct {
	cfg    *config.ForwarderConfig
	client *http.Client
	logger zerolog.Logger
}

func main() {
	cfg := config.LoadForwarder()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	fw := &forwarder{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid Discord token")
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	dg.AddHandler(fw.onReady)
	dg.AddHandler(fw.onMessageCreate)

	if err := dg.Open(); err != nil {
		logger.Fatal().Err(err).Msg("Discord connection failed")
	}
	defer dg.Close()

	logger.Info().
		Int("channels", len(cfg.Channels)).
		Str("ingest_url", cfg.IngestURL).
		Msg("forwarder running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("forwarder stopped")
}

// onReady forwards the last few messages of every configured channel,
// oldest first, as one batch per channel.
func (f *forwarder) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	f.logger.Info().Str("user", s.State.User.Username).Msg("logged in")

	for id, name := range f.cfg.Channels {
		msgs, err := s.ChannelMessages(id, f.cfg.FetchLimit, "", "", "")
		if err != nil {
			f.logger.Warn().Err(err).Str("channel", name).Msg("initial fetch failed")
			continue
		}
		// ChannelMessages returns newest first
		sort.Slice(msgs, func(i, j int) bool { return msgs[i].Timestamp.Before(msgs[j].Timestamp) })

		batch := make([]rawRecord, len(msgs))
		for i, m := range msgs {
			batch[i] = convert(m)
		}
		if err := f.post(name, batch); err != nil {
			f.logger.Warn().Err(err).Str("channel", name).Msg("initial forward failed")
			continue
		}
		f.logger.Info().Str("channel", name).Int("messages", len(batch)).Msg("initial messages forwarded")
	}
}

// onMessageCreate forwards each new human message as a one-element batch.
func (f *forwarder) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author != nil && m.Author.Bot {
		return
	}
	name, ok := f.cfg.Channels[m.ChannelID]
	if !ok {
		return
	}

	if err := f.post(name, []rawRecord{convert(m.Message)}); err != nil {
		f.logger.Warn().Err(err).Str("channel", name).Str("message", m.ID).Msg("forward failed")
		return
	}
	f.logger.Debug().Str("channel", name).Str("message", m.ID).Msg("message forwarded")
}

// convert flattens embeds into the message text and applies the cosmetic
// markup transforms before the record goes on the wire.
func convert(m *discordgo.Message) rawRecord {
	content := m.Content
	if len(m.Embeds) > 0 {
		parts := make([]string, 0, len(m.Embeds))
		for _, e := range m.Embeds {
			fields := make([][2]string, len(e.Fields))
			for i, fld := range e.Fields {
				fields[i] = [2]string{fld.Name, fld.Value}
			}
			parts = append(parts, normalize.FlattenEmbed(e.Title, e.Description, fields))
		}
		content = strings.Join(parts, "\n")
	}

	record := rawRecord{
		ID:        m.ID,
		Author:    normalize.DefaultAuthor,
		Content:   normalize.FormatContent(content),
		CreatedAt: m.Timestamp.UnixMilli(),
	}
	if m.Author != nil && m.Author.Username != "" {
		record.Author = m.Author.Username
	}
	return record
}

// post sends one batch to the ingest endpoint.
func (f *forwarder) post(channel string, batch []rawRecord) error {
	body, err := json.Marshal(ingestPayload{Channel: channel, Messages: batch})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, f.cfg.IngestURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimw.SecretHeader, f.cfg.BotSecret)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ingest returned %d", resp.StatusCode)
	}
	return nil
}
