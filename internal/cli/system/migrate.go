package system

import (
	"fmt"

	"github.com/julianstephens/dayplan/internal/cli"
)

// migrator is implemented by stores with a versioned SQL schema
type migrator interface {
	Migrate(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()

	m, ok := ctx.Store.(migrator)
	if !ok {
		fmt.Fprintln(out, "This store has no schema to migrate.")
		return nil
	}

	count, err := m.Migrate(func(msg string) {
		fmt.Fprintln(out, msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(out, "No migrations to apply. Database is up to date.")
	} else {
		fmt.Fprintf(out, "\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
