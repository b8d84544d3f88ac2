package service

import (
	"context"
	"fmt"
	"time"

	"github.com/worldorder/worldorder/internal/command"
	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/kv"
	"github.com/worldorder/worldorder/pkg/logger"
	"github.com/worldorder/worldorder/pkg/messaging"
	"github.com/worldorder/worldorder/pkg/ratelimiter"
	"github.com/worldorder/worldorder/pkg/tracing"
)

const (
	eventDedupTTL    = 24 * time.Hour
	pendingFormatTTL = 10 * time.Minute

	turnNamespace   = "turn"
	notifyNamespace = "notify"
	notifyPerMinute = 20
)

// ConversationConfig is the read-only configuration injected at startup
type ConversationConfig struct {
	Keywords           command.Keywords
	VendorFallback     map[string]string
	RateLimitPerMinute int
}

// route pairs a parser family with the flow that answers it. Routes are tried in
// order and the first match wins.
type route struct {
	name      string
	match     func(t *turn) *command.Intent
	ownerOnly bool
	handle    func(ctx context.Context, t *turn, it *command.Intent) error
}

// turn carries one inbound event through dispatch
type turn struct {
	event   domain.InboundEvent
	in      command.Input
	state   *ConversationState
	replies []messaging.Message
	// after runs once the reply was sent; failures there are only logged
	after []func(ctx context.Context)
}

func (t *turn) userID() string { return t.event.UserID }

func (t *turn) worldID() int64 { return t.state.Current.WorldID }

func (t *turn) say(text string) {
	t.replies = append(t.replies, messaging.SplitText(text)...)
}

func (t *turn) sayf(format string, args ...interface{}) {
	t.say(fmt.Sprintf(format, args...))
}

// ConversationService is the per-user state machine behind the webhook
type ConversationService struct {
	worlds    domain.WorldService
	ledger    domain.LedgerService
	messenger domain.Messenger
	profiles  domain.ProfileDirectory
	store     kv.KV
	limiter   *ratelimiter.Limiter
	parser    *command.Parser
	templates *replyTemplates
	locks     *userLocks
	fallback  map[string]string
	limitTurn bool
	logger    logger.Logger

	routes    map[Stage][]route
	fallbacks map[Stage]func(ctx context.Context, t *turn) error
}

func NewConversationService(
	worlds domain.WorldService,
	ledger domain.LedgerService,
	messenger domain.Messenger,
	profiles domain.ProfileDirectory,
	store kv.KV,
	limiter *ratelimiter.Limiter,
	cfg ConversationConfig,
	logger logger.Logger,
) *ConversationService {
	s := &ConversationService{
		worlds:    worlds,
		ledger:    ledger,
		messenger: messenger,
		profiles:  profiles,
		store:     store,
		limiter:   limiter,
		parser:    command.NewParser(cfg.Keywords),
		templates: newReplyTemplates(),
		locks:     newUserLocks(),
		fallback:  cfg.VendorFallback,
		logger:    logger,
	}
	if cfg.RateLimitPerMinute > 0 {
		limiter.SetPolicy(turnNamespace, cfg.RateLimitPerMinute, time.Minute)
		s.limitTurn = true
	}
	limiter.SetPolicy(notifyNamespace, notifyPerMinute, time.Minute)
	s.buildRoutes()
	return s
}

// parsed adapts a stateless parser family to a route matcher
func parsed(f func(command.Input) *command.Intent) func(t *turn) *command.Intent {
	return func(t *turn) *command.Intent { return f(t.in) }
}

func anything(t *turn) *command.Intent {
	return &command.Intent{Kind: command.KindNone}
}

func (s *ConversationService) buildRoutes() {
	p := s.parser
	s.routes = map[Stage][]route{
		StageNoBinding: {
			{name: "binding", match: parsed(p.Binding), handle: s.handleBinding},
		},
		StageCatalogSetup: {
			{name: "restart", match: parsed(p.Restart), handle: s.handleSetupRestart},
			{name: "catalog_setup", match: anything, handle: s.handleCatalogText},
		},
		StageNaming: {
			{name: "restart", match: parsed(p.Restart), handle: s.handleSetupRestart},
			{name: "naming", match: anything, handle: s.handleNaming},
		},
		StageActive: {
			{name: "binding", match: parsed(p.ExplicitBinding), handle: s.handleActiveBinding},
			{name: "world", match: parsed(p.WorldManagement), handle: s.handleWorld},
			{name: "help", match: parsed(p.Help), handle: s.handleHelp},
			{name: "menu_help", match: parsed(p.MenuHelp), handle: s.handleMenuHelp},
			{name: "menu", match: parsed(p.Menu), handle: s.handleMenu},
			{name: "menu_mutation", match: parsed(p.MenuMutation), ownerOnly: true, handle: s.handleMenuMutation},
			{name: "menu_image", match: parsed(p.MenuImage), ownerOnly: true, handle: s.handleMenuImage},
			{name: "members", match: parsed(p.Members), ownerOnly: true, handle: s.handleMembers},
			{name: "format", match: parsed(p.Format), ownerOnly: true, handle: s.handleFormat},
			{name: "format_payload", match: parsed(p.FormatPayload), handle: s.handleFormatPayload},
			{name: "clear_orders", match: parsed(p.ClearOrders), ownerOnly: true, handle: s.handleClearOrders},
			{name: "order", match: parsed(p.Order), handle: s.handleOrder},
		},
		StageInactiveNonOwner: {
			{name: "restart", match: parsed(p.Restart), handle: s.handleSetupRestart},
			{name: "not_ready", match: s.matchOrderShaped, handle: s.handleNotReady},
		},
	}
	s.fallbacks = map[Stage]func(ctx context.Context, t *turn) error{
		StageNoBinding:        s.sayWelcome,
		StageActive:           s.sayFallback,
		StageInactiveNonOwner: s.sayWaiting,
	}
}

// HandleEvent answers one inbound event with exactly one reply call. Redelivered
// events are acknowledged without a second reply. Only a recovered panic is returned.
func (s *ConversationService) HandleEvent(ctx context.Context, event domain.InboundEvent) (err error) {
	if !event.Handled() {
		return nil
	}

	if event.WebhookEventID != "" {
		fresh, kvErr := s.store.SetNX(ctx, "event:"+event.WebhookEventID, "1", eventDedupTTL)
		if kvErr != nil {
			s.logger.WithField("event_id", event.WebhookEventID).WithField("error", kvErr.Error()).
				Warn("Event dedupe unavailable, handling anyway")
		} else if !fresh {
			s.logger.WithField("event_id", event.WebhookEventID).Debug("Duplicate event ignored")
			return nil
		}
	}

	unlock := s.locks.Lock(event.UserID)
	defer unlock()

	ctx, span := tracing.StartServiceSpan(ctx, "ConversationService", "HandleEvent")
	defer func() { tracing.EndSpan(span, err) }()
	tracing.AddAttribute(ctx, "user_id", event.UserID)

	t := &turn{event: event, in: command.NewInput(event.Text)}

	if s.limitTurn && !s.limiter.Allow(turnNamespace, event.UserID) {
		t.say(msgTooFast)
		s.send(ctx, t)
		tracing.RecordTurn(ctx, "rate_limited", "none")
		return nil
	}

	state, err := s.GetState(ctx, event.UserID)
	if err != nil {
		s.logger.WithField("user_id", event.UserID).WithField("error", err.Error()).Error("Failed to load conversation state")
		t.say(msgTryLater)
		s.send(ctx, t)
		return nil
	}
	t.state = state
	stage := state.Stage()

	routeName := "follow"
	if event.Type == domain.EventTypeFollow {
		s.greet(ctx, t)
	} else {
		routeName, err = s.dispatchSafely(ctx, stage, t)
		if err != nil {
			return err
		}
	}

	s.send(ctx, t)
	tracing.RecordTurn(ctx, string(stage), routeName)

	for _, hook := range t.after {
		hook(ctx)
	}
	return nil
}

func (s *ConversationService) dispatchSafely(ctx context.Context, stage Stage, t *turn) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(map[string]interface{}{
				"user_id": t.userID(),
				"stage":   string(stage),
				"panic":   fmt.Sprint(r),
			}).Error("Recovered panic while dispatching event")
			err = fmt.Errorf("panic while dispatching event: %v", r)
		}
	}()
	return s.dispatch(ctx, stage, t), nil
}

// dispatch runs the first matching route of the stage. A flow error is a store or
// transport failure: it is logged and answered generically.
func (s *ConversationService) dispatch(ctx context.Context, stage Stage, t *turn) string {
	for _, r := range s.routes[stage] {
		it := r.match(t)
		if it == nil {
			continue
		}
		if r.ownerOnly && !t.state.IsOwner {
			t.say(msgOwnerOnly)
			return r.name
		}
		if err := r.handle(ctx, t, it); err != nil {
			s.flowFailed(t, r.name, err)
		}
		return r.name
	}

	if fb, ok := s.fallbacks[stage]; ok {
		if err := fb(ctx, t); err != nil {
			s.flowFailed(t, "fallback", err)
		}
	}
	return "fallback"
}

func (s *ConversationService) flowFailed(t *turn, routeName string, err error) {
	fields := map[string]interface{}{
		"user_id": t.userID(),
		"route":   routeName,
		"error":   err.Error(),
	}
	if t.state != nil && t.state.Current != nil {
		fields["world_id"] = t.state.Current.WorldID
	}
	s.logger.WithFields(fields).Error("Conversation flow failed")
	t.replies = nil
	t.say(msgTryLater)
}

// send delivers the turn's reply. Delivery failures are logged and counted, never returned.
func (s *ConversationService) send(ctx context.Context, t *turn) {
	if len(t.replies) == 0 || t.event.ReplyToken == "" {
		return
	}
	if err := s.messenger.Reply(ctx, t.event.ReplyToken, t.replies); err != nil {
		s.logger.WithField("user_id", t.userID()).WithField("error", err.Error()).Error("Failed to send reply")
		tracing.RecordReplyFailure(ctx)
	}
}

// greet answers a follow event
func (s *ConversationService) greet(ctx context.Context, t *turn) {
	if t.state.IsWorldActive {
		t.sayf("歡迎回來 👋 目前世界：「%s」\n輸入「說明」查看可用指令。", t.state.World.DisplayName())
		return
	}
	name := s.profiles.DisplayName(ctx, t.userID())
	if name == t.userID() {
		name = ""
	}
	text, err := render(s.templates.welcome, map[string]interface{}{"name": name})
	if err != nil {
		s.flowFailed(t, "follow", err)
		return
	}
	t.say(text)
}

func (s *ConversationService) actor(ctx context.Context, t *turn) domain.Actor {
	return domain.Actor{UserID: t.userID(), Label: s.profiles.DisplayName(ctx, t.userID())}
}

// pendingFormatKey marks which format the next bare JSON payload belongs to
func pendingFormatKey(userID string) string {
	return "format:" + userID
}
