package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/redshift-manager/internal/config"
	"github.com/mrlokans/redshift-manager/internal/configstore"
	"github.com/mrlokans/redshift-manager/internal/entities"
)

// ImportCommand replaces the configuration with a document from disk.
type ImportCommand struct {
	File         string
	ConfigFile   string
	DatabasePath string
	AuditDir     string
	DryRun       bool

	Out io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{Out: os.Stdout}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	fs.StringVar(&cmd.File, "file", "", "Document to import (required)")
	fs.StringVar(&cmd.ConfigFile, "config", cfg.Storage.ConfigFile, "Configuration file to update")
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Storage.DatabasePath, "Settings database holding the presets (empty to skip)")
	fs.StringVar(&cmd.AuditDir, "audit-dir", cfg.Audit.Dir, "Directory for snapshots of imported documents")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a configuration exported by this tool or by the older applet.\n")
		fmt.Fprintf(os.Stderr, "Legacy day-presets / night-presets lists become unified presets.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.File == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportCommand) Run() error {
	raw, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}

	if cmd.DryRun {
		fmt.Fprintln(cmd.Out, "DRY RUN MODE - No changes will be made")
		cfg, err := configstore.Import(raw, entities.DefaultConfiguration())
		if err != nil {
			return err
		}
		cmd.summarize(cfg)
		return nil
	}

	s, err := openStore(cmd.ConfigFile, cmd.DatabasePath, cmd.AuditDir)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg, err := s.store.ImportBytes(raw, cmd.File)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Out, "Configuration imported successfully")
	cmd.summarize(cfg)
	return nil
}

func (cmd *ImportCommand) summarize(cfg entities.Configuration) {
	fmt.Fprintf(cmd.Out, "Enabled: %v\n", cfg.Enabled)
	fmt.Fprintf(cmd.Out, "Day:     %dK @ %d%%\n", cfg.Day.Temp, cfg.Day.Brightness)
	fmt.Fprintf(cmd.Out, "Night:   %dK @ %d%%\n", cfg.Night.Temp, cfg.Night.Brightness)
	fmt.Fprintf(cmd.Out, "Presets: %d\n", len(cfg.Presets))
	for i, p := range cfg.Presets {
		shortcut := p.Shortcut
		if shortcut == "" {
			shortcut = "-"
		}
		fmt.Fprintf(cmd.Out, "  %d. %s (%s)\n", i, p.Name, shortcut)
	}
}
