package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sounddeck/model"

	"github.com/go-redis/redis/v8"
)

const (
	uiStateKey     = "sounddeck:ui:state"
	sessionSnapKey = "sounddeck:session:snapshot"
	sessionSnapTTL = 10 * time.Minute
)

// SaveUIState persists the current bank and loop flag. These are user
// preferences, not session state: they survive stop and restart.
func SaveUIState(ctx context.Context, state model.UIState) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal ui state: %w", err)
	}
	if err := RedisClient.Set(ctx, uiStateKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save ui state: %w", err)
	}
	return nil
}

// LoadUIState returns the saved bank/loop preferences, or zero-value
// defaults when nothing has been saved yet.
func LoadUIState(ctx context.Context) (model.UIState, error) {
	var state model.UIState
	if RedisClient == nil {
		return state, fmt.Errorf("Redis client not initialized")
	}
	data, err := RedisClient.Get(ctx, uiStateKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return state, nil
		}
		return state, fmt.Errorf("failed to load ui state: %w", err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("failed to unmarshal ui state: %w", err)
	}
	return state, nil
}

// SaveSessionSnapshot caches the latest session read model so a reconnecting
// client can render immediately, before the next websocket push arrives.
func SaveSessionSnapshot(ctx context.Context, snap model.SessionSnapshot) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}
	if err := RedisClient.Set(ctx, sessionSnapKey, data, sessionSnapTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache session snapshot: %w", err)
	}
	return nil
}
