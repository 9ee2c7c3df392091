package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"blockrsa/internal/config"
	"blockrsa/internal/ctxlog"
	"blockrsa/internal/decerr"
	"blockrsa/internal/history"
	"blockrsa/internal/pipeline"
	"blockrsa/internal/rec"
)

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  decrypt [-config <file>] [-o <output>] <key_file> <ciphertext_file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The key file holds one line \"<exponent>, <modulus>\".")
	fmt.Fprintln(w, "The ciphertext file holds decimal blocks separated by null bytes.")
	fmt.Fprintf(w, "The plaintext is written to %s unless configured otherwise.\n", pipeline.DefaultOutput)
}

func printTryHelp(w io.Writer) {
	fmt.Fprintln(w, "Try decrypt -h for help.")
}

func decrypt(ctx context.Context, c config.Config, keyPath, ciphertextPath string) (err error) {
	defer rec.Error(&err)

	logger := ctxlog.Get(ctx)

	var store *history.Store
	if c.History.File != "" {
		logger.Info("opening history", "file", c.History.File)
		store, err = history.Open(c.History)
		if err != nil {
			return err
		}
		defer ctxlog.Close(ctx, "history", store)
	}

	d := pipeline.New()
	d.Output = c.Output

	started := time.Now()
	res, err := d.Run(ctx, keyPath, ciphertextPath)

	if store != nil {
		record := history.Run{
			Started:        started,
			Duration:       time.Since(started).String(),
			KeyFile:        keyPath,
			CiphertextFile: ciphertextPath,
			OutputFile:     c.Output,
			ModulusBits:    res.ModulusBits,
			Blocks:         res.Blocks,
			Skipped:        res.Skipped,
			Bytes:          res.Bytes,
		}
		if res.Cid.Defined() {
			record.Cid = res.Cid.String()
		}
		if err != nil {
			record.Error = err.Error()
		}
		if _, rerr := store.Record(record); rerr != nil {
			logger.Error("failed to record run", "error", rerr)
		}
	}

	if err != nil {
		return err
	}

	logger.Info("plaintext written",
		"output", c.Output,
		"blocks", res.Blocks,
		"skipped", res.Skipped,
		"bytes", res.Bytes,
		"cid", res.Cid.String())
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("decrypt", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printHelp(stderr) }

	configFile := flags.String("config", "", "YAML configuration file (default "+config.DefaultFile+" if present)")
	output := flags.String("o", "", "output file (default "+pipeline.DefaultOutput+")")

	err := flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		printHelp(stdout)
		return 0
	}
	if err != nil {
		printTryHelp(stderr)
		return 2
	}

	switch flags.NArg() {
	case 0:
		fmt.Fprintln(stderr, "Error: Provide the key file and the ciphertext file.")
		printTryHelp(stderr)
		return 0
	case 1:
		fmt.Fprintln(stderr, "Error: Provide the file containing the ciphertext.")
		printTryHelp(stderr)
		return 0
	}

	name, required := *configFile, true
	if name == "" {
		name, required = config.DefaultFile, false
	}
	c, err := config.Load(ctx, name, required)
	if err != nil {
		fmt.Fprintf(stderr, "decrypt: config: %v\n", err)
		return 1
	}
	if *output != "" {
		c.Output = *output
	}

	opts, err := c.Logging()
	if err != nil {
		fmt.Fprintf(stderr, "decrypt: config: %v\n", err)
		return 1
	}
	ctx, logFile, err := ctxlog.Setup(ctx, "decrypt", opts)
	if err != nil {
		fmt.Fprintf(stderr, "decrypt: %v\n", err)
		return 1
	}
	defer ctxlog.Close(ctx, "log file", logFile)

	logger := ctxlog.Get(ctx)

	err = decrypt(ctx, c, flags.Arg(0), flags.Arg(1))
	if err != nil {
		logger.Error("decryption failed", "kind", decerr.Kind(err), "error", err)
		fmt.Fprintf(stderr, "decrypt: %v\n", err)
		return decerr.ExitCode(err)
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
