package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
	"voice-chat/internal/infra/audio"
)

func talkCmd() *cobra.Command {
	var saveDir string

	cmd := &cobra.Command{
		Use:   "talk",
		Short: "Chat in the terminal using the local microphone and speaker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			source, err := createLocalSource(cfg, logger)
			if err != nil {
				return err
			}

			var player application.Player = audio.NewSpeakerPlayer(logger)
			if saveDir != "" {
				player = audio.NewDirPlayer(saveDir)
			}

			sess := application.NewSession(uuid.NewString(), createStarter(cfg, logger))

			assistant, closeAssistant := newAssistant(cfg, logger)
			defer closeAssistant()

			return talkLoop(cmd.Context(), talkDeps{
				assistant: assistant,
				session:   sess,
				source:    source,
				player:    player,
				in:        cmd.InOrStdin(),
				out:       cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&saveDir, "save-dir", "", "write reply clips to this directory instead of playing them")
	return cmd
}

type talkDeps struct {
	assistant *application.Assistant
	session   *application.Session
	source    application.AudioSource
	player    application.Player
	in        io.Reader
	out       io.Writer
}

// talkLoop runs one turn per line read from in until in is exhausted or ctx
// is canceled.
func talkLoop(ctx context.Context, d talkDeps) error {
	lines := bufio.NewScanner(d.in)
	observer := terminalObserver(d.out)

	for {
		fmt.Fprintln(d.out, "Press Enter to speak (Ctrl+D to quit).")
		if !lines.Scan() {
			return lines.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		_, err := d.assistant.Turn(ctx, application.TurnRequest{
			Session:  d.session,
			Source:   d.source,
			Player:   d.player,
			Observer: observer,
		})
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			return nil
		default:
			fmt.Fprintf(d.out, "Error: %v\n", err)
		}
	}
}

func terminalObserver(out io.Writer) application.TurnObserver {
	return application.ObserverFunc(func(e domain.TurnEvent) {
		switch e.State {
		case domain.TurnCapturing:
			fmt.Fprintln(out, "Listening...")
		case domain.TurnCaptured:
			fmt.Fprintf(out, "You said: %s\n", e.Text)
		case domain.TurnReplied:
			fmt.Fprintf(out, "Assistant: %s\n", e.Text)
		case domain.TurnAborted:
			if e.Diagnostic != "" {
				fmt.Fprintln(out, e.Diagnostic)
			}
		}
	})
}

