package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"blockrsa/internal/ctxlog"
	"blockrsa/internal/decerr"
	"blockrsa/internal/keyfile"
	"blockrsa/internal/rec"
	"blockrsa/internal/seal"
)

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  encrypt [-workers <n>] <key_file> <plaintext_file> <ciphertext_file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The key file holds one line \"<exponent>, <modulus>\" with the exponent")
	fmt.Fprintln(w, "that decrypt's key file inverts.")
}

func encrypt(ctx context.Context, workers int, keyPath, plaintextPath, ciphertextPath string) (err error) {
	defer rec.Error(&err)

	key, err := keyfile.Parse(keyPath)
	if err != nil {
		return err
	}

	plaintext, err := os.ReadFile(plaintextPath)
	if err != nil {
		return fmt.Errorf("read plaintext file %q: %w", plaintextPath, decerr.NotFound(err))
	}

	ciphertext, err := seal.New(workers).Encrypt(ctx, key, plaintext)
	if err != nil {
		return err
	}

	err = os.WriteFile(ciphertextPath, ciphertext, 0644)
	if err != nil {
		return fmt.Errorf("write ciphertext file %q: %w", ciphertextPath, err)
	}

	ctxlog.Get(ctx).Info("ciphertext written", "file", ciphertextPath, "size", len(ciphertext))
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("encrypt", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printHelp(stderr) }

	workers := flags.Int("workers", 0, "blocks encrypted concurrently (default GOMAXPROCS)")
	verbose := flags.Bool("v", false, "debug logging")

	err := flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		printHelp(stdout)
		return 0
	}
	if err != nil {
		return 2
	}

	if flags.NArg() < 3 {
		fmt.Fprintln(stderr, "Error: Provide the key file, the plaintext file and the ciphertext file.")
		fmt.Fprintln(stderr, "Try encrypt -h for help.")
		return 0
	}

	opts := ctxlog.Options{Level: slog.LevelWarn}
	if *verbose {
		opts.Level = slog.LevelDebug
	}
	ctx, logFile, err := ctxlog.Setup(ctx, "encrypt", opts)
	if err != nil {
		fmt.Fprintf(stderr, "encrypt: %v\n", err)
		return 1
	}
	defer ctxlog.Close(ctx, "log file", logFile)

	err = encrypt(ctx, *workers, flags.Arg(0), flags.Arg(1), flags.Arg(2))
	if err != nil {
		fmt.Fprintf(stderr, "encrypt: %v\n", err)
		return decerr.ExitCode(err)
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
