package deck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"deckgen/catalog"
	"deckgen/state"
)

// Run implements the generate subcommand: build a deck from top and bottom
// text files without going through the web server.
func Run(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	log := env.Log

	env.Overwrite = cmd.Bool("overwrite")

	if cmd.Args().Len() < 2 {
		return errors.New("malformed command line, expecting top and bottom text files")
	}
	if cmd.Args().Len() > 3 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[3:]))
	}
	topPath := cmd.Args().Get(0)
	bottomPath := cmd.Args().Get(1)
	dest := cmd.Args().Get(2)

	templateName := cmd.String("template")
	if templateName == "" {
		return errors.New("no template specified")
	}
	templatePath, err := catalog.Resolve(&env.Cfg.Catalog, templateName)
	if err != nil {
		return fmt.Errorf("unable to resolve template: %w", err)
	}

	top, err := os.ReadFile(topPath)
	if err != nil {
		return fmt.Errorf("unable to read top text file: %w", err)
	}
	bottom, err := os.ReadFile(bottomPath)
	if err != nil {
		return fmt.Errorf("unable to read bottom text file: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.Store("input/"+filepath.Base(topPath), topPath)
		env.Rpt.Store("input/"+filepath.Base(bottomPath), bottomPath)
	}

	out, err := Generate(ctx, Request{
		TemplatePath: templatePath,
		TopText:      string(top),
		BottomText:   string(bottom),
	})
	if err != nil {
		return err
	}
	defer os.Remove(out)

	final, err := destinationPath(dest, templateName)
	if err != nil {
		return err
	}
	if _, err := os.Stat(final); err == nil && !env.Overwrite {
		return fmt.Errorf("destination file already exists: %s", final)
	}
	if err := copyFile(out, final); err != nil {
		return fmt.Errorf("unable to write destination file: %w", err)
	}

	log.Info("Deck written", zap.String("template", templateName), zap.String("file", final))
	return nil
}

// destinationPath derives the output file path. An empty or directory
// destination gets a template-based file name.
func destinationPath(dest, templateName string) (string, error) {
	name := strings.TrimSuffix(templateName, filepath.Ext(templateName)) + "_export.pptx"
	if dest == "" {
		return name, nil
	}
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		return filepath.Join(dest, name), nil
	}
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("unable to create destination directory: %w", err)
		}
	}
	return dest, nil
}

func copyFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(to)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}
