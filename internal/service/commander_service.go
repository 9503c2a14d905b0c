package service

import (
	"context"
	"fmt"
	"log"
)

// Completer sends one prompt to a language model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const deckBuilderPrompt = `You are an expert Magic: The Gathering deck builder specializing in Commander format.
Provide strategic commander recommendations based on color preferences and playstyle.
Consider synergies, power level, and meta considerations.`

type Recommendation struct {
	Recommendations string `json:"recommendations"`
	Colors          string `json:"colors"`
	Playstyle       string `json:"playstyle"`
}

type CommanderService struct {
	llm Completer
}

func NewCommanderService(llm Completer) *CommanderService {
	return &CommanderService{llm: llm}
}

// Recommend asks the model for three commanders. The reply is returned as
// free text.
func (s *CommanderService) Recommend(ctx context.Context, colors, playstyle string) (*Recommendation, error) {
	prompt := fmt.Sprintf("Recommend 3 commanders for colors: %s, playstyle: %s. Include reasoning.", colors, playstyle)

	reply, err := s.llm.Complete(ctx, deckBuilderPrompt, prompt)
	if err != nil {
		log.Printf("commander recommendation error: %v \n", err)
		return nil, upstreamError("recommend commanders", err)
	}

	return &Recommendation{
		Recommendations: reply,
		Colors:          colors,
		Playstyle:       playstyle,
	}, nil
}
