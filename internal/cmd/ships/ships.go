// Package ships maintains the ship catalog: listing, YAML export and import,
// single ship saves and deletes, and restoring the defaults.
package ships

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/MJE43/eclipse-combat/internal/catalog"
	entrypoint "github.com/MJE43/eclipse-combat/internal/cmd/entrypoint"
	"github.com/MJE43/eclipse-combat/internal/config"
	"github.com/MJE43/eclipse-combat/internal/store"
)

// Action is a ships subcommand.
type Action string

const (
	ActionList   Action = "list"
	ActionExport Action = "export"
	ActionImport Action = "import"
	ActionSave   Action = "save"
	ActionDelete Action = "delete"
	ActionReset  Action = "reset"
)

var ErrStoreRequired = errors.New("a catalog database is required (-db or ECLIPSE_COMBAT_DB)")

// Config holds ships command configuration.
type Config struct {
	config.Config
	Action Action
	// File is the YAML path for export, import and save; "-" means stdout.
	File string
	// Name is the ship type for save and delete.
	Name string
}

// ParseConfig parses environment, flags and the action argument.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(fs, &cfg.Config); err != nil {
		return Config{}, err
	}
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, errors.New("action is required: list, export FILE, import FILE, save NAME FILE, delete NAME or reset")
	}
	cfg.Action = Action(rest[0])
	switch cfg.Action {
	case ActionList, ActionReset:
		if len(rest) != 1 {
			return Config{}, fmt.Errorf("%s takes no arguments", cfg.Action)
		}
	case ActionExport, ActionImport:
		if len(rest) != 2 {
			return Config{}, fmt.Errorf("%s takes exactly one FILE argument", cfg.Action)
		}
		cfg.File = rest[1]
	case ActionSave:
		if len(rest) != 3 {
			return Config{}, errors.New("save takes NAME and FILE arguments")
		}
		cfg.Name, cfg.File = rest[1], rest[2]
	case ActionDelete:
		if len(rest) != 2 {
			return Config{}, errors.New("delete takes exactly one NAME argument")
		}
		cfg.Name = rest[1]
	default:
		return Config{}, fmt.Errorf("unknown action %q (valid actions: list, export, import, save, delete, reset)", cfg.Action)
	}

	// Trials are unused here.
	if cfg.Trials == 0 {
		cfg.Trials = 1
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the action.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch cfg.Action {
	case ActionList:
		reg, err := entrypoint.LoadCatalog(cfg.Config)
		if err != nil {
			return err
		}
		return List(out, reg)
	case ActionExport:
		reg, err := entrypoint.LoadCatalog(cfg.Config)
		if err != nil {
			return err
		}
		if cfg.File == "-" {
			data, err := catalog.Encode(reg.All())
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		}
		if err := catalog.WriteFile(cfg.File, reg.All()); err != nil {
			return err
		}
		fmt.Fprintf(out, "exported %d ship types to %s\n", reg.Len(), cfg.File)
		return nil
	case ActionImport:
		if cfg.DBPath == "" {
			return ErrStoreRequired
		}
		data, err := os.ReadFile(cfg.File)
		if err != nil {
			return fmt.Errorf("read catalog %s: %w", cfg.File, err)
		}
		ships, err := catalog.Decode(data)
		if err != nil {
			return fmt.Errorf("catalog %s: %w", cfg.File, err)
		}
		db, err := entrypoint.OpenStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.ImportShipTypes(ships); err != nil {
			return err
		}
		fmt.Fprintf(out, "imported %d ship types\n", len(ships))
		return nil
	case ActionSave:
		if cfg.DBPath == "" {
			return ErrStoreRequired
		}
		reg, err := catalog.LoadFile(cfg.File)
		if err != nil {
			return err
		}
		stats, ok := reg.Lookup(cfg.Name)
		if !ok {
			return fmt.Errorf("%w: %q not in %s", store.ErrShipTypeNotFound, cfg.Name, cfg.File)
		}
		db, err := entrypoint.OpenStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		saved, err := db.SaveShipType(cfg.Name, stats)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "saved ship type %s (%s)\n", saved.Name, saved.ID)
		return nil
	case ActionDelete:
		if cfg.DBPath == "" {
			return ErrStoreRequired
		}
		db, err := entrypoint.OpenStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.DeleteShipType(cfg.Name); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted ship type %s\n", cfg.Name)
		return nil
	case ActionReset:
		if cfg.DBPath == "" {
			return ErrStoreRequired
		}
		db, err := entrypoint.OpenStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.ResetShipTypes(); err != nil {
			return err
		}
		fmt.Fprintln(out, "ship catalog reset to defaults")
		return nil
	default:
		return fmt.Errorf("unknown action %q", cfg.Action)
	}
}

// List writes one line per ship type, names sorted.
func List(w io.Writer, reg *catalog.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tHULL\tCOMPUTER\tSHIELD\tCANNONS\tMISSILES\tRIFT\tINITIATIVE\tSPLITTER")
	for _, name := range reg.Names() {
		s, _ := reg.Lookup(name)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%d\t%d\t%t\n",
			name, s.Category, s.Hull, s.Computer, s.Shield,
			s.Cannons, s.Missiles, s.RiftCannons, s.Initiative, s.AntimatterSplitter)
	}
	return tw.Flush()
}
