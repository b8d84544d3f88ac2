package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/cache"
	"github.com/worldorder/worldorder/pkg/logger"
)

const (
	profileTTL         = time.Hour
	profileConcurrency = 4
)

// ProfileDirectory resolves display names through the messaging platform. Successful
// lookups are cached; concurrent lookups for one user share a single request.
type ProfileDirectory struct {
	messenger domain.Messenger
	names     *cache.TTLCache[string]
	group     singleflight.Group
	logger    logger.Logger
}

func NewProfileDirectory(messenger domain.Messenger, logger logger.Logger) *ProfileDirectory {
	return &ProfileDirectory{
		messenger: messenger,
		names:     cache.New[string](10 * time.Minute),
		logger:    logger,
	}
}

// DisplayName returns the user's display name, or the raw id when the lookup fails
func (d *ProfileDirectory) DisplayName(ctx context.Context, userID string) string {
	if name, ok := d.names.Get(userID); ok {
		return name
	}

	v, _, _ := d.group.Do(userID, func() (interface{}, error) {
		profile, err := d.messenger.GetProfile(ctx, userID)
		if err != nil || profile == nil || profile.DisplayName == "" {
			fields := map[string]interface{}{"user_id": userID}
			if err != nil {
				fields["error"] = err.Error()
			}
			d.logger.WithFields(fields).Warn("Profile lookup failed, using user id")
			return userID, nil
		}
		d.names.Set(userID, profile.DisplayName, profileTTL)
		return profile.DisplayName, nil
	})
	return v.(string)
}

// DisplayNames resolves many users with bounded parallelism
func (d *ProfileDirectory) DisplayNames(ctx context.Context, userIDs []string) map[string]string {
	out := make(map[string]string, len(userIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileConcurrency)
	for _, id := range userIDs {
		id := id
		g.Go(func() error {
			name := d.DisplayName(gctx, id)
			mu.Lock()
			out[id] = name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Stop releases the cache sweeper
func (d *ProfileDirectory) Stop() {
	d.names.Stop()
}
