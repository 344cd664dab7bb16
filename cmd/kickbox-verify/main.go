package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/skip405/kickbox-verifier/internal/adapters/kickbox"
	"github.com/skip405/kickbox-verifier/internal/adapters/store"
	"github.com/skip405/kickbox-verifier/internal/cache"
	"github.com/skip405/kickbox-verifier/internal/core"
	"github.com/skip405/kickbox-verifier/internal/logging"
	"go.uber.org/zap"
)

var (
	// Kickbox flags
	apiKey  = flag.String("api-key", "", "Kickbox API key (or KICKBOX_VERIFIER_KICKBOX_API_KEY)")
	baseURL = flag.String("base-url", kickbox.DefaultBaseURL, "Kickbox API base URL")
	timeout = flag.Int("timeout", 6, "Verification timeout in seconds")

	// Policy flags
	mode               = flag.String("mode", "permissive", "Verification mode (strict, permissive, custom)")
	allowUndeliverable = flag.Bool("allow-undeliverable", false, "Custom mode: accept undeliverable results")
	allowRisky         = flag.Bool("allow-risky", false, "Custom mode: accept risky results")
	allowUnknown       = flag.Bool("allow-unknown", false, "Custom mode: accept unknown results")
	minSendex          = flag.String("min-sendex", "", "Custom mode: minimal sendex value in (0,1]")

	// Batch flags
	batch       = flag.Bool("batch", false, "Submit the addresses as one batch verification job")
	filename    = flag.String("filename", "", "Batch job filename")
	callbackURL = flag.String("callback-url", "", "Batch completion callback URL")
	checkBatch  = flag.String("check-batch", "", "Check the status of a batch job by ID")

	// Output flags
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	key := *apiKey
	if key == "" {
		key = os.Getenv("KICKBOX_VERIFIER_KICKBOX_API_KEY")
	}
	if key == "" {
		logger.Fatal("No Kickbox API key configured")
	}

	client := kickbox.NewClient(key, *baseURL, logger)
	ctx := context.Background()

	if *checkBatch != "" {
		printEnvelope(client.CheckBatch(ctx, *checkBatch))
		return
	}

	emails := flag.Args()
	if len(emails) == 0 {
		logger.Fatal("No email addresses given")
	}

	if *batch {
		env := client.VerifyBatch(ctx, emails, core.BatchOptions{
			Filename:    *filename,
			CallbackURL: *callbackURL,
		})
		printEnvelope(env)
		return
	}

	service := buildService(client, key, logger)

	failed := false
	for _, email := range emails {
		interpretation := service.VerifyEmail(ctx, email, core.FormSettings{})
		if interpretation.Valid {
			fmt.Printf("%s: valid\n", email)
			continue
		}

		failed = true
		fmt.Printf("%s: invalid (%s)\n", email, interpretation.Message)
	}

	if failed {
		os.Exit(1)
	}
}

// buildService wires the one-shot pipeline by hand: an in-memory cache with
// caching switched off, so every address hits the API exactly once.
func buildService(client core.VerificationClient, key string, logger *zap.Logger) *core.ValidatorService {
	hooks := core.NewHooks()

	settings := core.GlobalSettings{
		Mode:               strings.TrimSpace(*mode),
		AllowUndeliverable: *allowUndeliverable,
		AllowRisky:         *allowRisky,
		AllowUnknown:       *allowUnknown,
		MinSendex:          *minSendex,
	}

	verificationCache := cache.New(
		store.NewMemoryStore(),
		nil,
		hooks,
		logger,
		func() cache.Settings { return cache.Settings{Enabled: false} },
		24*time.Hour,
	)

	messages := core.NewMessageResolver(settings.Messages, hooks)
	interpreter := core.NewInterpreter(messages, hooks, logger)

	return core.NewValidatorService(client, verificationCache, interpreter, hooks, logger, settings, key, *timeout)
}

func printEnvelope(env core.VerificationEnvelope) {
	if !env.Success {
		fmt.Printf("request failed: %s\n", env.Data.Error)
		os.Exit(1)
	}

	body := env.Data.Body
	switch {
	case body == nil:
		fmt.Printf("HTTP %d\n", env.Data.Code)
	case body.ID != 0:
		fmt.Printf("HTTP %d: job %d success=%t %s\n", env.Data.Code, body.ID, body.Success, body.Message)
	default:
		fmt.Printf("HTTP %d: success=%t %s\n", env.Data.Code, body.Success, body.Message)
	}
}
