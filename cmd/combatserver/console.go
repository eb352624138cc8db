package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cory-johannsen/dialstrike/internal/game/combat"
)

// consoleRunner drives the combat engine from an interactive console. It
// stands in for the game transport during local development: one session at
// a time, commands mapped directly onto engine operations.
type consoleRunner struct {
	engine *combat.Engine
	in     io.Reader
	out    io.Writer
	done   chan struct{}

	sessionID string
}

func newConsoleRunner(engine *combat.Engine, in io.Reader, out io.Writer) *consoleRunner {
	return &consoleRunner{
		engine: engine,
		in:     in,
		out:    out,
		done:   make(chan struct{}),
	}
}

// Start reads commands until EOF or Stop.
func (c *consoleRunner) Start() error {
	fmt.Fprintln(c.out, "commands: start <location> <level> | attack <angle> | defend <angle> | complete | quit")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-c.done:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := c.handle(context.Background(), line); quit {
				return nil
			}
		}
	}
}

// Stop terminates the command loop.
func (c *consoleRunner) Stop() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// handle dispatches one command line and reports whether the loop should
// exit.
func (c *consoleRunner) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit":
		return true
	case "start":
		locationType := "dungeon"
		level := 5
		if len(fields) > 1 {
			locationType = fields[1]
		}
		if len(fields) > 2 {
			if v, err := strconv.Atoi(fields[2]); err == nil {
				level = v
			}
		}
		sess, err := c.engine.StartCombat(ctx, "console", "console-loc", locationType, level)
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			return false
		}
		c.sessionID = sess.ID
		fmt.Fprintf(c.out, "fighting %s (tier %d): you %d HP, enemy %d HP\n",
			sess.EnemyTypeID, sess.EnemyTier, sess.PlayerHP, sess.EnemyHP)
	case "attack", "defend":
		if c.sessionID == "" {
			fmt.Fprintln(c.out, "no active session; use start")
			return false
		}
		if len(fields) < 2 {
			fmt.Fprintf(c.out, "usage: %s <angle>\n", fields[0])
			return false
		}
		angle, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || angle < 0 || angle > 360 {
			fmt.Fprintln(c.out, "angle must be a number in [0, 360]")
			return false
		}

		var out combat.AttackOutcome
		if fields[0] == "attack" {
			out, err = c.engine.ProcessAttack(ctx, c.sessionID, angle)
		} else {
			out, err = c.engine.ProcessDefend(ctx, c.sessionID, angle)
		}
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			return false
		}
		fmt.Fprintf(c.out, "turn %d: %s zone, dealt %d, took %d (you %d, enemy %d) [%s]\n",
			out.TurnNumber-1, out.Zone, out.DamageToEnemy, out.DamageToPlayer,
			out.PlayerHP, out.EnemyHP, out.Status)
	case "complete":
		if c.sessionID == "" {
			fmt.Fprintln(c.out, "no active session")
			return false
		}
		result, err := c.engine.CompleteCombat(ctx, c.sessionID)
		if err != nil {
			if errors.Is(err, combat.ErrSessionActive) {
				fmt.Fprintln(c.out, "the fight is not over yet")
			} else {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
			return false
		}
		c.sessionID = ""
		fmt.Fprintf(c.out, "rewards: %d gold, %d xp, %d items, %d materials\n",
			result.Gold, result.XP, len(result.Items), len(result.Materials))
	default:
		fmt.Fprintf(c.out, "unknown command %q\n", fields[0])
	}
	return false
}
