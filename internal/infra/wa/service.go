package wa

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/mdp/qrterminal"
	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	walog "go.mau.fi/whatsmeow/util/log"
	_ "modernc.org/sqlite"
)

// Handler answers one incoming chat text. An empty reply sends nothing.
type Handler func(ctx context.Context, in Incoming) (string, error)

// Incoming is a chat text with its sender already resolved to a stable id.
type Incoming struct {
	UserID   string
	PushName string
	Chat     types.JID
	Text     string
}

// LIDResolver maps linked-device ids to phone numbers.
type LIDResolver interface {
	Resolve(ctx context.Context, lid string) string
}

type Options struct {
	GroupID         string
	ReplyDelayMinMs int
	ReplyDelayMaxMs int
	ShowTyping      bool
}

type Service struct {
	client     *whatsmeow.Client
	dbBasePath string
	log        walog.Logger
	resolver   LIDResolver
	opts       Options
	handler    Handler
}

func NewService(dbBasePath string, logger walog.Logger, resolver LIDResolver, opts Options) *Service {
	return &Service{
		dbBasePath: dbBasePath,
		log:        logger,
		resolver:   resolver,
		opts:       opts,
	}
}

func (s *Service) Initialize(ctx context.Context) error {
	// whatsmeow keeps its own connection; WAL mode sticks to the file once set.
	dbAddress := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", s.dbBasePath)
	container, err := sqlstore.New(ctx, "sqlite", dbAddress, s.log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	devices, err := container.GetAllDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	var device *store.Device
	if len(devices) > 0 {
		device = devices[0]
	} else {
		device = container.NewDevice()
	}

	s.client = whatsmeow.NewClient(device, s.log)
	s.registerEventHandlers()

	return nil
}

func (s *Service) Connect() error {
	if s.client == nil {
		return fmt.Errorf("client not initialized")
	}
	if s.client.IsConnected() {
		return nil
	}
	return s.client.Connect()
}

func (s *Service) Disconnect() {
	if s.client != nil {
		s.client.Disconnect()
	}
}

func (s *Service) SetHandler(handler Handler) {
	s.handler = handler
}

func (s *Service) registerEventHandlers() {
	s.client.AddEventHandler(func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Message:
			if s.handler != nil {
				go s.handleMessage(context.Background(), v)
			}
		}
	})
}

func (s *Service) handleMessage(ctx context.Context, evt *events.Message) {
	if !Accept(evt, s.opts.GroupID) {
		return
	}
	text := TextOf(evt)
	if text == "" {
		return
	}

	in := Incoming{
		UserID:   s.senderID(ctx, evt.Info.Sender),
		PushName: evt.Info.PushName,
		Chat:     evt.Info.Chat,
		Text:     text,
	}
	logrus.WithFields(logrus.Fields{"user_id": in.UserID, "push_name": in.PushName}).Debugf("message: %s", text)

	reply, err := s.handler(ctx, in)
	if err != nil {
		logrus.Errorf("error handling message from %s: %v", in.UserID, err)
		return
	}
	if reply == "" {
		return
	}
	s.send(ctx, evt.Info.Chat, reply)
}

// senderID resolves LIDs to phone numbers so a user keeps one id across devices.
func (s *Service) senderID(ctx context.Context, sender types.JID) string {
	if IsLID(sender) && s.resolver != nil {
		return s.resolver.Resolve(ctx, sender.User)
	}
	return sender.User
}

func (s *Service) send(ctx context.Context, chat types.JID, reply string) {
	delay := ReplyDelay(s.opts.ReplyDelayMinMs, s.opts.ReplyDelayMaxMs, rand.Intn)
	if delay > 0 {
		if s.opts.ShowTyping {
			_ = s.client.SendChatPresence(ctx, chat, types.ChatPresenceComposing, types.ChatPresenceMediaText)
		}
		logrus.Debugf("delaying reply by %s", delay)
		time.Sleep(delay)
		if s.opts.ShowTyping {
			_ = s.client.SendChatPresence(ctx, chat, types.ChatPresencePaused, types.ChatPresenceMediaText)
		}
	}

	if _, err := s.client.SendMessage(ctx, chat, &waE2E.Message{Conversation: &reply}); err != nil {
		logrus.Errorf("failed to send response: %v", err)
	}
}

// Accept filters out own messages and, when groupID is set, other chats.
func Accept(evt *events.Message, groupID string) bool {
	if evt.Info.IsFromMe {
		return false
	}
	if groupID != "" && evt.Info.Chat.String() != groupID {
		return false
	}
	return true
}

// TextOf extracts plain or extended text; other message kinds yield "".
func TextOf(evt *events.Message) string {
	if evt.Message == nil {
		return ""
	}
	if evt.Message.Conversation != nil {
		return *evt.Message.Conversation
	}
	if evt.Message.ExtendedTextMessage != nil && evt.Message.ExtendedTextMessage.Text != nil {
		return *evt.Message.ExtendedTextMessage.Text
	}
	return ""
}

// IsLID reports whether jid looks like a linked-device id rather than a phone.
func IsLID(jid types.JID) bool {
	return jid.Server == types.HiddenUserServer || jid.Server == types.DefaultUserServer && len(jid.User) > 15
}

// ReplyDelay picks a delay in [minMs, maxMs]; maxMs <= minMs means a fixed minMs.
func ReplyDelay(minMs, maxMs int, intn func(int) int) time.Duration {
	delayMs := minMs
	if maxMs > minMs {
		delayMs = minMs + intn(maxMs-minMs+1)
	}
	if delayMs <= 0 {
		return 0
	}
	return time.Duration(delayMs) * time.Millisecond
}

func (s *Service) IsLoggedIn() bool {
	return s.client.Store.ID != nil
}

func (s *Service) Pair(ctx context.Context, phone string) (string, error) {
	if s.IsLoggedIn() {
		return "", fmt.Errorf("already logged in")
	}
	if !s.client.IsConnected() {
		return "", fmt.Errorf("client not connected")
	}

	code, err := s.client.PairPhone(ctx, phone, true, whatsmeow.PairClientChrome, "Chrome (Linux)")
	if err != nil {
		return "", err
	}
	return code, nil
}

// PrintQR connects and renders login QR codes until the channel closes.
func (s *Service) PrintQR(ctx context.Context) {
	if s.client.Store.ID != nil {
		return
	}
	qrChan, _ := s.client.GetQRChannel(ctx)
	if err := s.client.Connect(); err != nil {
		logrus.Errorf("failed to connect for QR: %v", err)
		return
	}
	for evt := range qrChan {
		if evt.Event == "code" {
			fmt.Println("QR Code:", evt.Code)
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
		} else {
			logrus.Infof("login event: %s", evt.Event)
		}
	}
}
