package homeroom

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ghchoi48/homeroom/internal/counseling/app"
	"github.com/ghchoi48/homeroom/internal/counseling/storage/sqlite"
	"github.com/ghchoi48/homeroom/internal/counseling/worker"
	"github.com/ghchoi48/homeroom/internal/settings"
	"github.com/ghchoi48/homeroom/internal/update"
)

const maxPasswordAttempts = 3

// Run starts the homeroom application: settings, password gate, store,
// worker queue, then the interactive loop.
func Run(ctx context.Context, cfg Config) error {
	settingsStore, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}

	if err := unlock(settingsStore, os.Stdin, os.Stdout); err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open counseling store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close counseling store: %v", closeErr)
		}
	}()

	service := app.New(store, settingsStore)
	queue := worker.New(8)
	go func() {
		_ = queue.Run(ctx)
	}()

	if !cfg.SkipUpdateCheck {
		go reportUpdates(ctx)
	}

	return interact(ctx, queue, service, settingsStore, os.Stdin, os.Stdout)
}

// unlock enforces the password gate: set on first run, check afterwards.
func unlock(store *settings.Store, in *os.File, out *os.File) error {
	if !store.IsPasswordSet() {
		fmt.Fprintln(out, "No password is set yet.")
		first, err := promptPassword(in, out, "New password: ")
		if err != nil {
			return err
		}
		second, err := promptPassword(in, out, "Confirm password: ")
		if err != nil {
			return err
		}
		if first != second {
			return fmt.Errorf("passwords do not match")
		}
		if err := store.SetPassword(first); err != nil {
			return err
		}
		fmt.Fprintln(out, "Password saved.")
		return nil
	}

	for attempt := 0; attempt < maxPasswordAttempts; attempt++ {
		plaintext, err := promptPassword(in, out, "Password: ")
		if err != nil {
			return err
		}
		if store.CheckPassword(plaintext) {
			return nil
		}
		fmt.Fprintln(out, "Wrong password.")
	}
	return fmt.Errorf("too many failed password attempts")
}

func promptPassword(in *os.File, out *os.File, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	// Piped input, e.g. in tests or scripts.
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", fmt.Errorf("no password input")
	}
	return scanner.Text(), nil
}

func reportUpdates(ctx context.Context) {
	release, err := update.NewClient().Check(ctx)
	if err != nil {
		log.Printf("update check: %v", err)
		return
	}
	if release.Newer {
		log.Printf("a newer release is available: %s (running %s)", release.Latest, update.Version)
	}
}
