package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	PlayersPerGame = 4
	StartingLife   = 40

	// ActionPass is the only action the AI decision endpoint reports.
	ActionPass = "pass"
)

var ErrInvalidPlayers = fmt.Errorf("commander requires exactly %d distinct players", PlayersPerGame)

var ErrPlayerNotInGame = errors.New("player is not part of this game")

type Phase string

const PhaseUpkeep Phase = "upkeep"

// CommanderDamage is the damage dealt to a player by another player's commander.
type CommanderDamage struct {
	FromPlayerID string `bson:"from_player_id" json:"from_player_id"`
	Damage       int    `bson:"damage" json:"damage"`
}

// PlayerState holds everything the game tracks for a single player.
type PlayerState struct {
	PlayerID        string            `bson:"player_id" json:"player_id"`
	Life            int               `bson:"life" json:"life"`
	CommanderDamage []CommanderDamage `bson:"commander_damage" json:"commander_damage"`
	Battlefield     []CardRef         `bson:"battlefield" json:"battlefield"`
	Hand            []CardRef         `bson:"hand" json:"hand"`
	Graveyard       []CardRef         `bson:"graveyard" json:"graveyard"`
}

type StackItem struct {
	ControllerID string  `bson:"controller_id" json:"controller_id"`
	Card         CardRef `bson:"card" json:"card"`
}

// Game is a four-player Commander game document. No rules engine advances it.
type Game struct {
	ID          string        `bson:"_id" json:"id"`
	Players     []string      `bson:"players" json:"players"`
	CurrentTurn int           `bson:"current_turn" json:"current_turn"`
	Phase       Phase         `bson:"phase" json:"phase"`
	TurnCount   int           `bson:"turn_count" json:"turn_count"`
	States      []PlayerState `bson:"player_states" json:"player_states"`
	Stack       []StackItem   `bson:"stack" json:"stack"`
	GameOver    bool          `bson:"game_over" json:"game_over"`
	Winner      string        `bson:"winner,omitempty" json:"winner,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
}

// NewGame seats exactly four distinct players at 40 life with empty zones.
func NewGame(id string, players []string, now time.Time) (*Game, error) {
	if len(players) != PlayersPerGame {
		return nil, ErrInvalidPlayers
	}
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if _, dup := seen[p]; dup || p == "" {
			return nil, ErrInvalidPlayers
		}
		seen[p] = struct{}{}
	}

	g := &Game{
		ID:        id,
		Players:   append([]string(nil), players...),
		Phase:     PhaseUpkeep,
		TurnCount: 1,
		States:    make([]PlayerState, 0, len(players)),
		Stack:     []StackItem{},
		CreatedAt: now,
	}
	for _, p := range players {
		dmg := make([]CommanderDamage, 0, len(players)-1)
		for _, other := range players {
			if other != p {
				dmg = append(dmg, CommanderDamage{FromPlayerID: other})
			}
		}
		g.States = append(g.States, PlayerState{
			PlayerID:        p,
			Life:            StartingLife,
			CommanderDamage: dmg,
			Battlefield:     []CardRef{},
			Hand:            []CardRef{},
			Graveyard:       []CardRef{},
		})
	}
	return g, nil
}

// State returns the state record for playerID.
func (g *Game) State(playerID string) (*PlayerState, bool) {
	for i := range g.States {
		if g.States[i].PlayerID == playerID {
			return &g.States[i], true
		}
	}
	return nil, false
}

// AIDecision is the answer of the AI decision endpoint. Reasoning carries the
// model's raw reply; ActionType is always ActionPass because the reply is
// not parsed into an action.
type AIDecision struct {
	PlayerID   string `json:"player_id"`
	ActionType string `json:"action_type"`
	Target     string `json:"target,omitempty"`
	Reasoning  string `json:"reasoning"`
}
