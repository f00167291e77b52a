package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/delaneyj/servable/cmd/servable/templates"
	"github.com/delaneyj/servable/prefs"
	"github.com/delaneyj/servable/prefs/sqlitestore"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

func prefsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Read and write the configured preference store",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print the JSON value stored under KEY",
				ArgsUsage: "KEY",
				Action:    prefsGet,
			},
			{
				Name:      "set",
				Usage:     "Store VALUE under KEY. VALUE is parsed as JSON, or kept as a string",
				ArgsUsage: "KEY VALUE",
				Action:    prefsSet,
			},
			{
				Name:      "delete",
				Usage:     "Remove KEY",
				ArgsUsage: "KEY",
				Action:    prefsDelete,
			},
			{
				Name:   "list",
				Usage:  "List every stored preference",
				Action: prefsList,
			},
			{
				Name:  "dump",
				Usage: "Write a Markdown report of the store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  outKey,
						Usage: "Report file, stdout when empty",
					},
				},
				Action: prefsDump,
			},
		},
	}
}

// withStore runs fn against the configured store and closes it afterwards.
func withStore(cmd *cli.Command, fn func(rt *env) error) (err error) {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(rt)
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.NArg() != n {
		return fmt.Errorf("%s expects %d argument(s): %s", cmd.Name, n, cmd.ArgsUsage)
	}
	return nil
}

func prefsGet(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	key := cmd.Args().Get(0)
	return withStore(cmd, func(rt *env) error {
		var raw json.RawMessage
		found, err := rt.store.Get(key, &raw)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("key %q not found", key)
		}
		_, err = fmt.Fprintln(rt.out, string(raw))
		return err
	})
}

// parseValue reads s as JSON, falling back to the plain string.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

func prefsSet(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 2); err != nil {
		return err
	}
	key, value := cmd.Args().Get(0), parseValue(cmd.Args().Get(1))
	return withStore(cmd, func(rt *env) error {
		if err := rt.store.Set(key, value); err != nil {
			return err
		}
		rt.logger.Info("preference stored", "key", key)
		return nil
	})
}

func prefsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	key := cmd.Args().Get(0)
	return withStore(cmd, func(rt *env) error {
		return prefs.Delete(rt.store, key)
	})
}

type entry struct {
	key     string
	value   json.RawMessage
	updated time.Time
}

// entries reads every preference of the store, with modification times when
// the backend records them.
func entries(ctx context.Context, s prefs.Store) ([]entry, error) {
	if sq, ok := s.(*sqlitestore.Store); ok {
		rows, err := sq.Entries(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]entry, 0, len(rows))
		for _, r := range rows {
			out = append(out, entry{key: r.Key, value: r.Value, updated: r.UpdatedAt})
		}
		return out, nil
	}

	keys, err := prefs.Keys(s)
	if err != nil {
		return nil, err
	}
	out := make([]entry, 0, len(keys))
	for _, k := range keys {
		var raw json.RawMessage
		if _, err := s.Get(k, &raw); err != nil {
			return nil, err
		}
		out = append(out, entry{key: k, value: raw})
	}
	return out, nil
}

func (e entry) size() string {
	return humanize.Bytes(uint64(len(e.value)))
}

func (e entry) age() string {
	if e.updated.IsZero() {
		return "-"
	}
	return humanize.Time(e.updated)
}

func prefsList(ctx context.Context, cmd *cli.Command) error {
	return withStore(cmd, func(rt *env) error {
		all, err := entries(ctx, rt.store)
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(rt.out)
		table.SetHeader([]string{"key", "value", "size", "updated"})
		for _, e := range all {
			table.Append([]string{e.key, string(e.value), e.size(), e.age()})
		}
		table.Render()
		return nil
	})
}

func prefsDump(ctx context.Context, cmd *cli.Command) error {
	return withStore(cmd, func(rt *env) error {
		all, err := entries(ctx, rt.store)
		if err != nil {
			return err
		}
		d := &templates.Dump{
			Backend: rt.cfg.Backend,
			Path:    rt.cfg.PrefsFile(),
		}
		for _, e := range all {
			d.Entries = append(d.Entries, templates.DumpEntry{
				Key:     e.key,
				Value:   string(e.value),
				Size:    e.size(),
				Updated: e.age(),
			})
		}

		var w io.Writer = rt.out
		if path := cmd.String(outKey); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		templates.WriteReport(w, d)
		return nil
	})
}
