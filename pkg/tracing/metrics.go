package tracing

import (
	"context"
	"fmt"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// KeyStage is the conversation stage a turn was dispatched in
	KeyStage = tag.MustNewKey("stage")
	// KeyRoute is the route that handled the turn
	KeyRoute = tag.MustNewKey("route")

	TurnsHandled  = stats.Int64("worldorder/turns", "Conversation turns dispatched", stats.UnitDimensionless)
	OrdersCreated = stats.Int64("worldorder/orders_created", "Orders written to the ledger", stats.UnitDimensionless)
	ReplyFailures = stats.Int64("worldorder/reply_failures", "Outbound reply or push calls that failed", stats.UnitDimensionless)
)

var conversationViews = []*view.View{
	{
		Name:        "worldorder/turns_by_route",
		Measure:     TurnsHandled,
		Description: "Turns grouped by stage and route",
		TagKeys:     []tag.Key{KeyStage, KeyRoute},
		Aggregation: view.Count(),
	},
	{
		Name:        "worldorder/orders_created",
		Measure:     OrdersCreated,
		Description: "Orders created",
		Aggregation: view.Count(),
	},
	{
		Name:        "worldorder/reply_failures",
		Measure:     ReplyFailures,
		Description: "Failed outbound messages",
		Aggregation: view.Count(),
	},
}

// RegisterConversationViews is idempotent per process; view.Register ignores identical re-registrations
func RegisterConversationViews() error {
	if err := view.Register(conversationViews...); err != nil {
		return fmt.Errorf("failed to register conversation views: %w", err)
	}
	return nil
}

// RecordTurn counts one dispatched turn
func RecordTurn(ctx context.Context, stage, route string) {
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyStage, stage), tag.Upsert(KeyRoute, route)},
		TurnsHandled.M(1),
	)
}

// RecordOrderCreated counts one ledger order
func RecordOrderCreated(ctx context.Context) {
	stats.Record(ctx, OrdersCreated.M(1))
}

// RecordReplyFailure counts one failed outbound call
func RecordReplyFailure(ctx context.Context) {
	stats.Record(ctx, ReplyFailures.M(1))
}
