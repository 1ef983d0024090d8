// Package teamstore persists the team list one record per team and keeps an
// in-memory logo index for the assembler.
package teamstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/domain/reference"
	"github.com/preston-bernstein/club-games-service/internal/kvstore"
)

const (
	indexKey  = "team_ids"
	keyPrefix = "team_"
)

// Store persists teams under team_<id> keys plus a team_ids index envelope.
type Store struct {
	kv kvstore.Store

	mu    sync.RWMutex
	logos map[string]string
}

// New builds a team store over kv.
func New(kv kvstore.Store) *Store {
	return &Store{
		kv:    kv,
		logos: make(map[string]string),
	}
}

func teamKey(id string) string {
	return keyPrefix + id
}

// Load reads every indexed team. A missing index is an empty result, not an error.
// Index entries whose record is gone are skipped.
func (s *Store) Load(ctx context.Context) ([]reference.Team, time.Time, error) {
	index, ok, err := kvstore.GetJSON[[]string](ctx, s.kv, indexKey)
	if err != nil {
		return nil, time.Time{}, err
	}
	if !ok {
		return nil, time.Time{}, nil
	}

	teams := make([]reference.Team, 0, len(index.Data))
	for _, id := range index.Data {
		raw, err := s.kv.Get(ctx, teamKey(id))
		if errors.Is(err, kvstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, time.Time{}, err
		}
		var team reference.Team
		if err := json.Unmarshal(raw, &team); err != nil {
			return nil, time.Time{}, fmt.Errorf("teamstore: decode team %s: %w", id, err)
		}
		teams = append(teams, team)
	}

	s.indexLogos(teams)
	return teams, index.FetchedAt(), nil
}

// Save writes every team record, then the index stamped with at.
func (s *Store) Save(ctx context.Context, teams []reference.Team, at time.Time) error {
	ids := make([]string, 0, len(teams))
	for _, team := range teams {
		if team.ID == "" {
			continue
		}
		raw, err := json.Marshal(team)
		if err != nil {
			return fmt.Errorf("teamstore: encode team %s: %w", team.ID, err)
		}
		if err := s.kv.Set(ctx, teamKey(team.ID), raw); err != nil {
			return err
		}
		ids = append(ids, team.ID)
	}
	if err := kvstore.SetJSON(ctx, s.kv, indexKey, ids, at); err != nil {
		return err
	}

	s.indexLogos(teams)
	return nil
}

// Clear removes the index and every indexed team record.
func (s *Store) Clear(ctx context.Context) error {
	index, ok, err := kvstore.GetJSON[[]string](ctx, s.kv, indexKey)
	if err != nil {
		return err
	}
	if ok {
		for _, id := range index.Data {
			if err := s.kv.Delete(ctx, teamKey(id)); err != nil {
				return err
			}
		}
	}
	if err := s.kv.Delete(ctx, indexKey); err != nil {
		return err
	}

	s.mu.Lock()
	s.logos = make(map[string]string)
	s.mu.Unlock()
	return nil
}

// LogoURI returns the logo of a persisted team, or "" when unknown.
func (s *Store) LogoURI(id string) string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logos[id]
}

func (s *Store) indexLogos(teams []reference.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logos = make(map[string]string, len(teams))
	for _, team := range teams {
		if team.LogoURL != "" {
			s.logos[team.ID] = team.LogoURL
		}
	}
}
