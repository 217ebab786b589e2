package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/audio"
	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/chatapi"
	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/config"
	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/httpserver"
	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/session"
	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/storage"
	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/stt"
	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/transcript"
	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/tts"
	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/view"
)

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	rootCmd := &cobra.Command{
		Use:   "chatbox",
		Short: "Conversational client for the AI-chatbot backend",
	}
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(devserverCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("chatbox: %v", err)
	}
}

// openKV builds the persistence stack: local files, optionally mirrored to a
// Supabase bucket when configured.
func openKV(cfg config.Config) (transcript.KV, error) {
	fileKV, err := storage.NewFileKV(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	sbCfg := storage.SupabaseConfig{URL: cfg.SupabaseURL, ServiceRoleKey: cfg.SupabaseKey, Bucket: cfg.SupabaseBucket}
	if !sbCfg.Enabled() {
		return fileKV, nil
	}
	remote, err := storage.NewSupabaseKV(sbCfg)
	if err != nil {
		log.Printf("chatbox: supabase mirror disabled: %v", err)
		return fileKV, nil
	}
	return &storage.TeeKV{Primary: fileKV, Mirror: remote}, nil
}

func pickSynthesizer(cfg config.Config) tts.Synthesizer {
	if cfg.SynthProvider == "deepgram" {
		return tts.NewDeepgramSynthesizer(cfg.DeepgramAPIKey, cfg.DeepgramVoiceModel)
	}
	return tts.NewBackendSynthesizer(cfg.ChatBaseURL)
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat session (:voice to speak, :say N to hear a reply, :quit to exit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			kv, err := openKV(cfg)
			if err != nil {
				return err
			}

			store := transcript.NewStore(cfg.StudentID, kv, printLastEntry)
			sess := session.New(store, chatapi.NewClient(cfg.ChatBaseURL), nil)

			// Audio is optional: a headless box still gets text chat.
			var player *audio.Player
			if p, err := audio.NewPlayer(); err != nil {
				log.Printf("chatbox: audio unavailable: %v", err)
			} else {
				player = p
				defer player.Close()
			}

			var speak *tts.Session
			if player != nil {
				speak = tts.NewSession(pickSynthesizer(cfg), player, func(st tts.PlaybackState) {
					if st != tts.StateIdle {
						fmt.Printf("[voice: %s]\n", st)
					}
				})
			}

			var rec stt.Recognizer
			if cfg.SpeechWSEndpoint != "" && player != nil {
				rec = stt.NewGatewayRecognizer(cfg.SpeechWSEndpoint, cfg.SpeechLocale, audio.CaptureSampleRate, audio.NewMicrophone())
			}
			capture := stt.NewCaptureSession(rec, sess, sess, func(notice string) {
				fmt.Printf("\n!! %s\n", notice)
			})

			for _, m := range store.Messages() {
				printEntry(m)
			}
			fmt.Printf("connected to %s as %s\n", cfg.ChatBaseURL, cfg.StudentID)

			ctx := cmd.Context()
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				switch {
				case line == ":quit":
					return nil
				case line == ":voice":
					if !capture.Supported() {
						fmt.Println("voice capture is not available in this session")
					} else {
						fmt.Println("listening...")
						capture.Start(ctx)
					}
				case strings.HasPrefix(line, ":say "):
					sayMessage(ctx, speak, store, strings.TrimPrefix(line, ":say "))
				default:
					sess.Submit(ctx, line)
				}
				fmt.Print("> ")
			}
			return scanner.Err()
		},
	}
}

func sayMessage(ctx context.Context, speak *tts.Session, store *transcript.Store, arg string) {
	if speak == nil {
		fmt.Println("audio playback is not available")
		return
	}
	idx, err := strconv.Atoi(strings.TrimSpace(arg))
	msgs := store.Messages()
	if err != nil || idx < 0 || idx >= len(msgs) {
		fmt.Println("usage: :say <message index>")
		return
	}
	speak.Play(ctx, msgs[idx].Text)
}

func printEntry(m transcript.Message) {
	who := "bot"
	if m.Sender == transcript.SenderUser {
		who = "you"
	}
	fmt.Printf("%s: %s\n", who, m.Text)
}

// printLastEntry redraws the newest message; pending entries overwrite their
// line in place so a reveal animates instead of scrolling.
func printLastEntry(msgs []transcript.Message) {
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	if last.Kind == transcript.KindPending {
		fmt.Printf("\r\033[Kbot: %s", last.Text)
		return
	}
	fmt.Print("\r\033[K")
	printEntry(last)
}

func historyCmd() *cobra.Command {
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the persisted transcript for the configured identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			kv, err := openKV(cfg)
			if err != nil {
				return err
			}
			store := transcript.NewStore(cfg.StudentID, kv, nil)
			if asHTML {
				fmt.Print(view.Render(store.Messages()))
				return nil
			}
			for _, m := range store.Messages() {
				printEntry(m)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render the transcript as an HTML fragment")
	return cmd
}

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List host audio devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := audio.NewPlayer()
			if err != nil {
				return err
			}
			defer player.Close()
			devices, err := audio.Devices()
			if err != nil {
				return err
			}
			for _, d := range devices {
				fmt.Printf("%2d: %s (in=%d out=%d rate=%.0f)\n", d.Index, d.Name, d.MaxInputs, d.MaxOutputs, d.SampleRate)
			}
			return nil
		},
	}
}

func devserverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devserver",
		Short: "Run a local stub backend implementing the /chat and /speak contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			e := httpserver.New()

			serverErrors := make(chan error, 1)
			go func() {
				log.Printf("devserver listening on %s", cfg.HTTPAddress)
				serverErrors <- e.Start(cfg.HTTPAddress)
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-serverErrors:
				return err
			case sig := <-sigChan:
				log.Printf("shutdown signal received: %v", sig)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(ctx)
		},
	}
}
