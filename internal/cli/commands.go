package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mverkerk/rpsbattle/internal/model"
	"github.com/mverkerk/rpsbattle/internal/ws"
)

const requestTimeout = 10 * time.Second

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := CheckHealth(cfg.ServerURL); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games waiting for an opponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Send(ws.EventGetAvailableGames, nil); err != nil {
				return err
			}

			env, err := client.ReadUntil(requestTimeout, ws.EventAvailableGames)
			if err != nil {
				return err
			}

			var payload ws.AvailableGamesPayload
			if err := json.Unmarshal(env.Payload, &payload); err != nil {
				return err
			}

			if len(payload.Games) == 0 {
				fmt.Println("No open games.")
				return nil
			}
			for _, g := range payload.Games {
				fmt.Printf("%s\thost=%s\tplayers=%d\n", g.ID, g.Host, g.Players)
			}
			return nil
		},
	}
}

func newCreateCmd() *cobra.Command {
	var playerName string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			err = client.Send(ws.EventCreateGame, ws.CreateGamePayload{
				PlayerID:   uuid.NewString(),
				PlayerName: playerName,
			})
			if err != nil {
				return err
			}

			env, err := client.ReadUntil(requestTimeout, ws.EventCreateGame)
			if err != nil {
				return err
			}

			var ack ws.CreateGameAck
			if err := json.Unmarshal(env.Payload, &ack); err != nil {
				return err
			}
			fmt.Println(ack.GameID)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerName, "name", "host", "Player display name")
	return cmd
}

func newPlayCmd() *cobra.Command {
	var playerName string
	var gameID string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an interactive battle session",
		Long: `Connects to the server and plays interactively. Without --game a new
game is created; with --game an existing game is joined.

Commands at the prompt:
  move <attack> <defense>   submit a move pair (rock/paper/scissors)
  leave                     forfeit and exit
  quit                      disconnect without forfeiting`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			playerID := uuid.NewString()

			if gameID == "" {
				err = client.Send(ws.EventCreateGame, ws.CreateGamePayload{
					PlayerID: playerID, PlayerName: playerName,
				})
				if err != nil {
					return err
				}
				env, err := client.ReadUntil(requestTimeout, ws.EventCreateGame)
				if err != nil {
					return err
				}
				var ack ws.CreateGameAck
				if err := json.Unmarshal(env.Payload, &ack); err != nil {
					return err
				}
				gameID = ack.GameID
				fmt.Printf("Created game %s, waiting for an opponent...\n", gameID)
			} else {
				err = client.Send(ws.EventJoinGame, ws.JoinGamePayload{
					GameID: gameID, PlayerID: playerID, PlayerName: playerName,
				})
				if err != nil {
					return err
				}
				if _, err := client.ReadUntil(requestTimeout, ws.EventJoinGame); err != nil {
					return err
				}
				fmt.Printf("Joined game %s.\n", gameID)
			}

			// Print server events as they arrive
			done := make(chan struct{})
			go func() {
				defer close(done)
				for {
					env, err := client.Read()
					if err != nil {
						return
					}
					printEvent(env)
				}
			}()

			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("> ")
			for scanner.Scan() {
				fields := strings.Fields(scanner.Text())
				if len(fields) == 0 {
					fmt.Print("> ")
					continue
				}

				switch fields[0] {
				case "move":
					if len(fields) != 3 {
						fmt.Println("usage: move <attack> <defense>")
						break
					}
					err := client.Send(ws.EventSubmitMove, ws.SubmitMovePayload{
						GameID:      gameID,
						PlayerID:    playerID,
						AttackType:  fields[1],
						DefenseType: fields[2],
					})
					if err != nil {
						return err
					}
				case "leave":
					_ = client.Send(ws.EventLeaveGame, ws.LeaveGamePayload{
						GameID: gameID, PlayerID: playerID,
					})
					return nil
				case "quit":
					return nil
				default:
					fmt.Println("commands: move <attack> <defense> | leave | quit")
				}
				fmt.Print("> ")
			}

			<-done
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&playerName, "name", "player", "Player display name")
	cmd.Flags().StringVar(&gameID, "game", "", "Game id to join (create a new game if empty)")
	return cmd
}

// printEvent renders one server event for the terminal
func printEvent(env ws.Envelope) {
	switch env.Event {
	case ws.EventGameStateUpdate:
		var game model.Game
		if err := json.Unmarshal(env.Payload, &game); err != nil {
			return
		}
		fmt.Printf("\n[%s]", game.Phase)
		for _, p := range game.Players {
			fmt.Printf("  %s %d/%d", p.Name, p.Health, p.MaxHealth)
		}
		fmt.Println()
		if len(game.Log) > 0 {
			fmt.Printf("  %s\n", game.Log[0])
		}
		fmt.Print("> ")
	case ws.EventAttackAnimation:
		var anim ws.AttackAnimationPayload
		if err := json.Unmarshal(env.Payload, &anim); err != nil {
			return
		}
		fmt.Printf("\n  %s vs %s: %d damage (%s effective)\n> ",
			anim.AttackType, anim.DefenseType, anim.Damage, anim.Effectiveness)
	case ws.EventGameOver:
		var over ws.GameOverPayload
		if err := json.Unmarshal(env.Payload, &over); err != nil {
			return
		}
		if over.Draw {
			fmt.Println("\n  The battle is a draw!")
		} else {
			fmt.Printf("\n  Winner: %s\n", over.WinnerID)
		}
		fmt.Print("> ")
	case ws.EventError:
		var ep ws.ErrorPayload
		if err := json.Unmarshal(env.Payload, &ep); err != nil {
			return
		}
		fmt.Printf("\n  error: %s (%s)\n> ", ep.Message, ep.Code)
	}
}
