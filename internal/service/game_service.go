package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fjod/go_commander/internal/domain"
	"github.com/fjod/go_commander/internal/repository"
	"github.com/google/uuid"
)

const gamePlayerPrompt = `You are an expert Magic: The Gathering Commander player.
Analyze the current game state and make strategic decisions.
Consider board state, life totals, commander damage, card advantage, mana efficiency,
threat assessment, politics in multiplayer and win conditions.
Always provide clear reasoning for your decisions.`

type GameService struct {
	repo  repository.GameRepository
	llm   Completer
	now   func() time.Time
	newID func() string
}

func NewGameService(repo repository.GameRepository, llm Completer) *GameService {
	return &GameService{
		repo:  repo,
		llm:   llm,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Create seats four players in a new game and stores it.
func (s *GameService) Create(ctx context.Context, players []string) (*domain.Game, error) {
	game, err := domain.NewGame(s.newID(), players, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateGame(ctx, game); err != nil {
		log.Printf("repo create game error: %v \n", err)
		return nil, err
	}
	return game, nil
}

// AIDecision asks the model what playerID should do next. The reply is
// passed through as reasoning and is not parsed, so the action is always
// domain.ActionPass.
func (s *GameService) AIDecision(ctx context.Context, gameID, playerID string) (*domain.AIDecision, error) {
	game, err := s.repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	state, ok := game.State(playerID)
	if !ok {
		return nil, domain.ErrPlayerNotInGame
	}

	reply, err := s.llm.Complete(ctx, gamePlayerPrompt, decisionPrompt(game, state))
	if err != nil {
		log.Printf("ai decision error: %v \n", err)
		return nil, upstreamError("ai decision", err)
	}

	return &domain.AIDecision{
		PlayerID:   playerID,
		ActionType: domain.ActionPass,
		Reasoning:  reply,
	}, nil
}

func decisionPrompt(game *domain.Game, state *domain.PlayerState) string {
	life := make([]string, 0, len(game.States))
	for _, ps := range game.States {
		life = append(life, fmt.Sprintf("%s=%d", ps.PlayerID, ps.Life))
	}
	board := make([]string, 0, len(state.Battlefield))
	for _, c := range state.Battlefield {
		board = append(board, c.Name)
	}

	var b strings.Builder
	b.WriteString("Current Game State:\n")
	fmt.Fprintf(&b, "- Turn: %d\n", game.TurnCount)
	fmt.Fprintf(&b, "- Phase: %s\n", game.Phase)
	fmt.Fprintf(&b, "- Life Totals: %s\n", strings.Join(life, ", "))
	fmt.Fprintf(&b, "- Current Player: %s\n", state.PlayerID)
	fmt.Fprintf(&b, "- Players: %s\n", strings.Join(game.Players, ", "))
	fmt.Fprintf(&b, "- Board State: [%s]\n", strings.Join(board, ", "))
	fmt.Fprintf(&b, "- Hand Size: %d\n\n", len(state.Hand))
	b.WriteString("What is your next action? Choose from: play_spell, attack, block, pass, activate_ability\n")
	b.WriteString("Provide your reasoning.")
	return b.String()
}
