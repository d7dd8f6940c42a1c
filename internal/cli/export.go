package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/redshift-manager/internal/config"
	"github.com/mrlokans/redshift-manager/internal/configstore"
)

// ExportCommand writes a timestamped copy of the configuration.
type ExportCommand struct {
	ConfigFile   string
	DatabasePath string
	Dir          string
	Stdout       bool

	Out io.Writer
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{Out: os.Stdout}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	fs.StringVar(&cmd.ConfigFile, "config", cfg.Storage.ConfigFile, "Configuration file to export")
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Storage.DatabasePath, "Settings database holding the presets (empty to skip)")
	fs.StringVar(&cmd.Dir, "dir", cfg.Storage.ExportDir, "Target directory (default: the configured export directory)")
	fs.BoolVar(&cmd.Stdout, "stdout", false, "Print the document instead of writing a file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the configuration, presets included, as a JSON document.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ExportCommand) Run() error {
	s, err := openStore(cmd.ConfigFile, cmd.DatabasePath, "")
	if err != nil {
		return err
	}
	defer s.Close()

	if cmd.Stdout {
		doc, err := configstore.Export(s.store.Current(), time.Now())
		if err != nil {
			return err
		}
		_, err = cmd.Out.Write(doc.Data)
		return err
	}

	dir := cmd.Dir
	if dir == "" && s.settings != nil {
		dir = s.settings.GetExportDir()
	}
	if dir == "" {
		return fmt.Errorf("no export directory; pass -dir")
	}

	path, err := s.store.ExportTo(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "Configuration exported to %s\n", path)
	return nil
}
