package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/fjod/go_commander/internal/domain"
	"github.com/fjod/go_commander/internal/repository"
	"github.com/fjod/go_commander/internal/service"
)

type CardServiceMock struct {
	card     *service.CardView
	cards    []service.CardView
	err      error
	gotLimit int
}

func (m *CardServiceMock) GetCard(context.Context, string) (*service.CardView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.card, nil
}

func (m *CardServiceMock) Search(_ context.Context, _ string, limit int) ([]service.CardView, error) {
	m.gotLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.cards, nil
}

type CommanderServiceMock struct {
	reply string
	err   error
}

func (m CommanderServiceMock) Recommend(_ context.Context, colors, playstyle string) (*service.Recommendation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &service.Recommendation{Recommendations: m.reply, Colors: colors, Playstyle: playstyle}, nil
}

type GameServiceMock struct {
	game     *domain.Game
	decision *domain.AIDecision
	err      error
	players  []string
}

func (m *GameServiceMock) Create(_ context.Context, players []string) (*domain.Game, error) {
	m.players = players
	if m.err != nil {
		return nil, m.err
	}
	return m.game, nil
}

func (m *GameServiceMock) AIDecision(context.Context, string, string) (*domain.AIDecision, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.decision, nil
}

func TestSearchCards_Success(t *testing.T) {
	mock := &CardServiceMock{cards: []service.CardView{
		{ID: "a", Name: "Lightning Bolt", Prices: map[string]any{"usd": "1.00", "usd_aud": 1.55}},
		{ID: "b", Name: "Chain Lightning"},
	}}
	router := newTestRouter(&DeckServiceMock{}, mock, CommanderServiceMock{}, &GameServiceMock{})

	recorder := serve(router, "GET", "/api/cards/search?q=lightning&limit=2", nil)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if mock.gotLimit != 2 {
		t.Errorf("Expected limit 2, got %d", mock.gotLimit)
	}

	var response SearchResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Total != 2 || len(response.Cards) != 2 {
		t.Errorf("Expected 2 cards, got total=%d len=%d", response.Total, len(response.Cards))
	}
	if response.Cards[0].Prices["usd_aud"] != 1.55 {
		t.Errorf("Expected usd_aud 1.55, got %v", response.Cards[0].Prices["usd_aud"])
	}
}

func TestSearchCards_DefaultLimit(t *testing.T) {
	mock := &CardServiceMock{}
	router := newTestRouter(&DeckServiceMock{}, mock, CommanderServiceMock{}, &GameServiceMock{})

	serve(router, "GET", "/api/cards/search?q=goblin", nil)

	if mock.gotLimit != service.DefaultSearchLimit {
		t.Errorf("Expected limit %d, got %d", service.DefaultSearchLimit, mock.gotLimit)
	}
}

func TestSearchCards_BadRequest(t *testing.T) {
	router := newTestRouter(&DeckServiceMock{}, &CardServiceMock{}, CommanderServiceMock{}, &GameServiceMock{})

	for _, target := range []string{"/api/cards/search", "/api/cards/search?q=x&limit=-1"} {
		recorder := serve(router, "GET", target, nil)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status code %d, got %d", target, http.StatusBadRequest, recorder.Code)
		}
	}
}

func TestGetCard_NotFound(t *testing.T) {
	router := newTestRouter(&DeckServiceMock{}, &CardServiceMock{err: service.ErrCardNotFound}, CommanderServiceMock{}, &GameServiceMock{})

	recorder := serve(router, "GET", "/api/cards/missing", nil)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestRecommendCommanders(t *testing.T) {
	router := newTestRouter(&DeckServiceMock{}, &CardServiceMock{}, CommanderServiceMock{reply: "Try Atraxa."}, &GameServiceMock{})

	recorder := serve(router, "GET", "/api/commanders/recommend?colors=WUBG&playstyle=counters", nil)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	var response service.Recommendation
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Recommendations != "Try Atraxa." || response.Colors != "WUBG" || response.Playstyle != "counters" {
		t.Errorf("Unexpected response %+v", response)
	}
}

func TestRecommendCommanders_UpstreamFailure(t *testing.T) {
	err := fmt.Errorf("%w: recommend commanders: %w", service.ErrUpstream, errors.New("401 unauthorized"))
	router := newTestRouter(&DeckServiceMock{}, &CardServiceMock{}, CommanderServiceMock{err: err}, &GameServiceMock{})

	recorder := serve(router, "GET", "/api/commanders/recommend", nil)

	if recorder.Code != http.StatusBadGateway {
		t.Errorf("Expected status code %d, got %d", http.StatusBadGateway, recorder.Code)
	}
}

func TestCreateGame_Success(t *testing.T) {
	players := []string{"a", "b", "c", "d"}
	game, _ := domain.NewGame("game-1", players, time.Now())
	mock := &GameServiceMock{game: game}
	router := newTestRouter(&DeckServiceMock{}, &CardServiceMock{}, CommanderServiceMock{}, mock)

	body, _ := json.Marshal(players)
	recorder := serve(router, "POST", "/api/games", body)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if len(mock.players) != 4 {
		t.Errorf("Expected 4 players passed to service, got %d", len(mock.players))
	}

	var response domain.Game
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.States) != 4 || response.States[0].Life != domain.StartingLife {
		t.Errorf("Unexpected player states %+v", response.States)
	}
}

func TestCreateGame_WrongPlayerCount(t *testing.T) {
	router := newTestRouter(&DeckServiceMock{}, &CardServiceMock{}, CommanderServiceMock{}, &GameServiceMock{err: domain.ErrInvalidPlayers})

	recorder := serve(router, "POST", "/api/games", []byte(`["a","b"]`))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestCreateGame_NotAnArray(t *testing.T) {
	router := newTestRouter(&DeckServiceMock{}, &CardServiceMock{}, CommanderServiceMock{}, &GameServiceMock{})

	recorder := serve(router, "POST", "/api/games", []byte(`{"players":["a"]}`))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestAIDecision_Success(t *testing.T) {
	mock := &GameServiceMock{decision: &domain.AIDecision{PlayerID: "a", ActionType: domain.ActionPass, Reasoning: "Hold up mana."}}
	router := newTestRouter(&DeckServiceMock{}, &CardServiceMock{}, CommanderServiceMock{}, mock)

	recorder := serve(router, "GET", "/api/games/game-1/ai-decision?player_id=a", nil)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	var response domain.AIDecision
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.ActionType != "pass" {
		t.Errorf("Expected action pass, got %s", response.ActionType)
	}
}

func TestAIDecision_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"missing player id", "/api/games/game-1/ai-decision", nil, http.StatusBadRequest},
		{"game not found", "/api/games/missing/ai-decision?player_id=a", repository.ErrGameNotFound, http.StatusNotFound},
		{"player not in game", "/api/games/game-1/ai-decision?player_id=z", domain.ErrPlayerNotInGame, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&DeckServiceMock{}, &CardServiceMock{}, CommanderServiceMock{}, &GameServiceMock{err: tt.err})
			recorder := serve(router, "GET", tt.target, nil)
			if recorder.Code != tt.want {
				t.Errorf("Expected status code %d, got %d", tt.want, recorder.Code)
			}
		})
	}
}
