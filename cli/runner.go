// Package cli runs the interactive session loop.
//
// Information Hiding:
// - Command dispatch logic hidden
// - Provider/driver setup hidden
// - Output formatting hidden
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"quill/agent"
	"quill/config"
	"quill/conversation"
	"quill/llm"
	"quill/tools"
	"quill/workspace"
)

// Options holds CLI execution options.
type Options struct {
	Provider   string
	Model      string
	ConfigPath string
}

// streamSink renders turn progress to the terminal.
type streamSink struct {
	inReasoning bool
}

func (s *streamSink) Reasoning(text string) {
	s.inReasoning = true
	fmt.Print(reasoningStyle.Render(text))
}

func (s *streamSink) Content(text string) {
	if s.inReasoning {
		s.inReasoning = false
		fmt.Print("\n\n")
	}
	fmt.Print(text)
}

func (s *streamSink) ToolDispatch(name string) {
	fmt.Println()
	fmt.Println(toolStyle.Render(fmt.Sprintf("-> %s", name)))
}

func (s *streamSink) Status(text string) {
	fmt.Println(statusStyle.Render(text))
}

// Chat runs the interactive session until the user exits.
func Chat(ctx context.Context, opts Options) error {
	settings, err := config.New(opts.Provider, opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Model != "" {
		settings.LLM.Model = opts.Model
	}

	provider, err := createProvider(settings)
	if err != nil {
		return err
	}

	store := workspace.NewStore().WithNotifier(func(format string, args ...any) {
		fmt.Println(noticeStyle.Render(fmt.Sprintf(format, args...)))
	})
	log := conversation.New(agent.SystemPrompt)
	loader := conversation.NewLoader(log, store)

	registry, err := tools.NewFileRegistry(store, loader)
	if err != nil {
		return err
	}

	sink := &streamSink{}
	driver := agent.NewDriver(log, provider, registry, sink)

	sessionID := uuid.NewString()
	fmt.Println(bannerStyle.Render("quill"))
	fmt.Println(sessionStyle.Render(fmt.Sprintf("session %s | %s (%s)", sessionID, provider.Name(), provider.Model())))
	fmt.Println(sessionStyle.Render("commands: /add <path>, /clear, /exit"))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print(promptStyle.Render("> "))
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
			break
		}

		if path, ok := strings.CutPrefix(input, "/add "); ok {
			addPath(loader, strings.TrimSpace(path))
			continue
		}
		if input == "/clear" {
			log.Reset()
			fmt.Println(noticeStyle.Render("conversation cleared"))
			continue
		}

		if err := driver.RunTurn(ctx, input); err != nil {
			var turnErr *agent.TurnError
			if errors.As(err, &turnErr) {
				fmt.Fprintln(os.Stderr, errorStyle.Render(turnErr.Error()))
				continue
			}
			return err
		}
		fmt.Println()
		fmt.Println()
	}

	return scanner.Err()
}

// addPath loads a file or directory into conversation context and
// reports what was loaded and what was skipped.
func addPath(loader *conversation.Loader, path string) {
	if path == "" {
		fmt.Println(errorStyle.Render("usage: /add <path>"))
		return
	}

	summary, err := loader.AddPath(path)
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("add %s: %v", path, err)))
		return
	}

	fmt.Println(noticeStyle.Render(fmt.Sprintf("added %d file(s) to context", len(summary.Added))))
	if len(summary.Skipped) > 0 {
		shown := summary.Skipped
		if len(shown) > 5 {
			shown = shown[:5]
		}
		fmt.Println(statusStyle.Render(fmt.Sprintf("skipped %d: %s", len(summary.Skipped), strings.Join(shown, ", "))))
	}
}

// createProvider builds the configured provider with its API key from
// the environment.
func createProvider(settings config.Settings) (llm.Provider, error) {
	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w (supported: %s)", err, strings.Join(config.SupportedProviders(), ", "))
	}

	key, err := config.APIKeyFor(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	return llm.NewProviderBuilder(providerType).
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(settings.LLM.Temperature).
		APIKey(key)
}

// ListTools prints the registered tool catalog.
func ListTools() error {
	store := workspace.NewStore()
	log := conversation.New(agent.SystemPrompt)
	loader := conversation.NewLoader(log, store)

	registry, err := tools.NewFileRegistry(store, loader)
	if err != nil {
		return err
	}

	for _, def := range registry.Definitions() {
		fmt.Printf("%-22s %s\n", def.Name, def.Description)
	}
	return nil
}
