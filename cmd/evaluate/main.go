package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"briscola-game/internal/config"
	"briscola-game/internal/game"
	"briscola-game/internal/inference"
	"briscola-game/internal/policy"

	log "github.com/sirupsen/logrus"
)

func main() {
	episodes := flag.Int("episodes", 500, "matches per opponent")
	agentFlag := flag.String("agent", string(policy.LevelTier3), "agent: a policy level or learned:medium / learned:hard")
	opponents := flag.String("opponents", strings.Join(levelNames(), ","), "comma separated opponent levels")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	rng := rand.New(rand.NewPCG(*seed, *seed+1))
	agent, err := buildAgent(*agentFlag, cfg.InferenceURL, rng)
	if err != nil {
		log.Fatalf("Agent %q: %v", *agentFlag, err)
	}

	ctx := context.Background()
	for _, name := range strings.Split(*opponents, ",") {
		level, err := policy.ParseLevel(strings.TrimSpace(name))
		if err != nil {
			log.Fatalf("Opponent %q: %v", name, err)
		}
		opponent, err := policy.New(level, rng)
		if err != nil {
			log.Fatalf("Opponent %q: %v", name, err)
		}

		m := game.NewMatch(opponent, rng)
		tally, err := game.Evaluate(ctx, m, agent, *episodes)
		if err != nil {
			log.Errorf("Evaluation against %s stopped: %v", level, err)
			os.Exit(1)
		}
		fmt.Printf("%s: win %d / %d (%.1f%%), loss %d, draw %d\n",
			level, tally.Win, tally.Total(), tally.WinRate(), tally.Loss, tally.Draw)
	}
}

func levelNames() []string {
	names := make([]string, 0, len(policy.Levels))
	for _, l := range policy.Levels {
		names = append(names, string(l))
	}
	return names
}

func buildAgent(name, inferenceURL string, rng *rand.Rand) (game.Agent, error) {
	if raw, ok := strings.CutPrefix(name, "learned:"); ok {
		difficulty, err := inference.ParseDifficulty(raw)
		if err != nil {
			return nil, err
		}
		if inferenceURL == "" {
			return nil, fmt.Errorf("INFERENCE_URL is not set")
		}
		client := inference.NewClient(inferenceURL, difficulty)
		if err := client.Health(context.Background()); err != nil {
			return nil, fmt.Errorf("inference service: %w", err)
		}
		return game.LearnedAgent{Scorer: client}, nil
	}

	level, err := policy.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	p, err := policy.New(level, rng)
	if err != nil {
		return nil, err
	}
	return game.PolicyAgent{Policy: p}, nil
}
