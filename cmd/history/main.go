package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"blockrsa/internal/config"
	"blockrsa/internal/ctxlog"
	"blockrsa/internal/history"
	"blockrsa/internal/rec"
)

func list(ctx context.Context, c config.Config, out io.Writer) (err error) {
	defer rec.Error(&err)

	if c.History.File == "" {
		return fmt.Errorf("history: no history file configured")
	}

	store, err := history.Open(c.History)
	if err != nil {
		return err
	}
	defer ctxlog.Close(ctx, "history", store)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tKEY\tCIPHERTEXT\tOUTPUT\tBLOCKS\tBYTES\tCID\tERROR")
	for _, r := range store.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.Started.Local().Format(time.DateTime),
			r.KeyFile,
			r.CiphertextFile,
			r.OutputFile,
			r.Blocks,
			r.Bytes,
			r.Cid,
			r.Error)
	}
	return w.Flush()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	name, required := config.DefaultFile, false
	if len(args) > 0 {
		name, required = args[0], true
	}

	c, err := config.Load(ctx, name, required)
	if err != nil {
		fmt.Fprintf(stderr, "history: config: %v\n", err)
		return 1
	}

	err = list(ctx, c, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
