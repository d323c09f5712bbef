// Command chait runs the turn-taking engine interactively against a
// canned generator, for trying out moods, scoring and queue behavior
// without an LLM provider.
//
// Usage:
//
//	chait demo                      # interactive demo with a sample roster
//	chait demo --config config.yaml # demo with a specific configuration
//	chait version                   # show version information
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	chait "github.com/ccalde29/CHAIT-world-sub001"
	"github.com/ccalde29/CHAIT-world-sub001/config"
	"github.com/ccalde29/CHAIT-world-sub001/turn"
	"github.com/ccalde29/CHAIT-world-sub001/types"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "demo":
		runDemo(os.Args[2:])
	case "version":
		fmt.Printf("chait %s (built %s)\n", Version, BuildTime)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runDemo(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	engine, err := chait.New(cfg, turn.GeneratorFunc(cannedReply))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build engine: %v\n", err)
		os.Exit(1)
	}

	roster := []types.Character{
		{ID: "luna", Name: "Luna", Persona: "a dreamy artist", Temperature: 0.9},
		{ID: "rex", Name: "Rex", Persona: "a blunt skeptic", Temperature: 0.6},
		{ID: "sage", Name: "Sage", Persona: "a calm mediator", Temperature: 0.3},
	}
	fmt.Println("Roster: Luna, Rex, Sage. Type a message, or \"quit\" to exit.")

	var recent []string
	lastSpeaker := ""
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		res, err := engine.RunTurn(context.Background(), turn.TurnInput{
			SessionID:      "demo",
			UserID:         "demo-user",
			Message:        line,
			Characters:     roster,
			LastSpeakerID:  lastSpeaker,
			RecentSpeakers: recent,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
			continue
		}

		for _, r := range res.Responses {
			time.Sleep(r.Delay)
			fmt.Printf("[%s, %s %.2f] %s\n", r.CharacterName, r.Mood.Mood, r.Mood.Intensity, r.Text)
			recent = append([]string{r.CharacterID}, recent...)
			lastSpeaker = r.CharacterID
		}
		for _, s := range res.Skipped {
			fmt.Printf("(%s stayed quiet: %s)\n", s.CharacterID, s.Reason)
		}
	}
}

// cannedReply fabricates a response from the character's persona and mood
// hint, standing in for a real LLM provider.
func cannedReply(_ context.Context, req turn.GenerateRequest) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "As %s, I'd say: interesting point about %q.", req.Character.Persona, firstWords(req.Message, 5))
	if req.PrimaryResponse != "" {
		b.WriteString(" And I see what was just said, too.")
	}
	if req.MoodHint != "" {
		fmt.Fprintf(&b, " (%s)", req.MoodHint)
	}
	return b.String(), nil
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func printUsage() {
	fmt.Println(`chait - multi-character turn-taking engine

Usage:
  chait demo [--config config.yaml]   Run the interactive demo
  chait version                       Show version information
  chait help                          Show this help`)
}
