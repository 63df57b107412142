// chatcli is a terminal front end for the persona chat service: persona
// picker, conversation REPL, and optional speech playback through a local
// player command.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"personachat/audio"
	"personachat/chat"
	"personachat/client"
	"personachat/core"
	"personachat/personas"
	"personachat/store"
)

func main() {
	var serverURL string
	var personaID string
	var dataPath string
	var ephemeral bool
	var autoplay bool
	flag.StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the personachat server")
	flag.StringVar(&personaID, "persona", personas.Default, "initial persona")
	flag.StringVar(&dataPath, "data", "data/chatcli.db", "conversation history file")
	flag.BoolVar(&ephemeral, "ephemeral", false, "keep history in memory only")
	flag.BoolVar(&autoplay, "autoplay", true, "speak new replies automatically")
	flag.Parse()

	logger := core.GetLogger()
	_ = godotenv.Load(".env.local")

	if v := os.Getenv("PERSONACHAT_DATA"); v != "" {
		dataPath = v
	}

	var st store.Store
	if ephemeral {
		st = store.NewMemoryStore()
	} else {
		bs, err := store.OpenBolt(dataPath, logger)
		if err != nil {
			logger.Fatalf("open history: %v", err)
		}
		defer bs.Close()
		st = bs
	}

	api := client.New(serverURL)
	session := chat.NewSession(api, st, logger)
	if err := session.SetPersona(personaID); err != nil {
		logger.Fatalf("select persona: %v", err)
	}

	// Audio playback is optional: set PERSONACHAT_AUDIO_CMD to a player
	// reading mpeg from stdin, e.g. "mpv --no-video -" or
	// "ffplay -autoexit -nodisp -".
	var out audio.Output = audio.NopOutput{}
	audioEnabled := false
	if cmdline := os.Getenv("PERSONACHAT_AUDIO_CMD"); cmdline != "" {
		parts := strings.Fields(cmdline)
		out = audio.NewExecOutput(parts[0], parts[1:], logger)
		audioEnabled = true
	}

	ui := &cli{
		session:      session,
		api:          api,
		out:          out,
		audioEnabled: audioEnabled,
		autoplay:     autoplay,
		players:      make(map[string]*audio.Player),
	}
	ui.printHistory()
	ui.run()
}

type cli struct {
	session      *chat.Session
	api          *client.Client
	out          audio.Output
	audioEnabled bool
	autoplay     bool

	// players caches one playback controller per assistant message id, so
	// replays reuse the synthesized audio. Released on persona switch.
	players map[string]*audio.Player
}

func (c *cli) run() {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Printf("[%s] > ", c.session.PersonaID())
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if c.command(ctx, line) {
				return
			}
			continue
		}
		c.send(ctx, line)
	}
}

// command handles a /-prefixed control line; returns true on quit.
func (c *cli) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/personas":
		for _, p := range personas.All() {
			marker := "  "
			if p.ID == c.session.PersonaID() {
				marker = "* "
			}
			fmt.Printf("%s%s — %s\n", marker, p.ID, p.Name)
		}
	case "/persona":
		if len(fields) < 2 {
			fmt.Println("usage: /persona <id>")
			return false
		}
		c.switchPersona(fields[1])
	case "/clear":
		if err := c.session.Clear(); err != nil {
			fmt.Printf("clear failed: %v\n", err)
		} else {
			fmt.Println("history cleared")
		}
	case "/autoplay":
		c.autoplay = !c.autoplay
		fmt.Printf("auto-play %v\n", c.autoplay)
	case "/play":
		c.playLast(ctx)
	default:
		fmt.Println("commands: /persona <id>, /personas, /clear, /autoplay, /play, /quit")
	}
	return false
}

func (c *cli) switchPersona(id string) {
	if err := c.session.SetPersona(id); err != nil {
		if errors.Is(err, personas.ErrUnknownPersona) {
			fmt.Printf("unknown persona %q (see /personas)\n", id)
		} else {
			fmt.Printf("switch failed: %v\n", err)
		}
		return
	}
	// Prior messages are gone from view; their audio goes with them.
	for _, p := range c.players {
		p.Release()
	}
	c.players = make(map[string]*audio.Player)
	c.printHistory()
}

func (c *cli) send(ctx context.Context, text string) {
	if err := c.session.Send(ctx, text); err != nil {
		if errors.Is(err, chat.ErrSendInFlight) {
			fmt.Println("still waiting for the previous reply")
		} else {
			fmt.Printf("send failed: %v\n", err)
		}
		return
	}

	msgs := c.session.Messages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	if last.Role != core.RoleAssistant {
		return
	}
	fmt.Printf("\n%s\n\n", last.Content)

	if c.audioEnabled && last.ID != "" {
		player := c.playerFor(last)
		player.MaybeAutoPlay(ctx, c.autoplay, last.ID == c.session.AutoPlayTarget())
	}
}

// playLast replays the newest assistant message, reusing cached audio.
func (c *cli) playLast(ctx context.Context) {
	if !c.audioEnabled {
		fmt.Println("set PERSONACHAT_AUDIO_CMD to enable playback")
		return
	}
	msgs := c.session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == core.RoleAssistant {
			if err := c.playerFor(msgs[i]).Play(ctx); err != nil {
				fmt.Println("audio unavailable")
			}
			return
		}
	}
	fmt.Println("nothing to play")
}

func (c *cli) playerFor(m core.Message) *audio.Player {
	key := m.ID
	if key == "" {
		key = m.Content
	}
	if p, ok := c.players[key]; ok {
		return p
	}
	p := audio.NewPlayer(m.Content, c.session.PersonaID(), c.api, c.out, core.GetLogger())
	c.players[key] = p
	return p
}

func (c *cli) printHistory() {
	msgs := c.session.Messages()
	if len(msgs) == 0 {
		fmt.Printf("-- %s: no history --\n", c.session.PersonaID())
		return
	}
	fmt.Printf("-- %s: %d messages --\n", c.session.PersonaID(), len(msgs))
	for _, m := range msgs {
		prefix := "you"
		if m.Role == core.RoleAssistant {
			prefix = c.session.PersonaID()
		}
		fmt.Printf("%s: %s\n", prefix, m.Content)
	}
}
