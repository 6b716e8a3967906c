package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/homework/assets"
	"github.com/trezcool/homework/core"
	"github.com/trezcool/homework/core/homework"
	"github.com/trezcool/homework/core/pageloader"
	"github.com/trezcool/homework/core/view"
	"github.com/trezcool/homework/services/canvas"
	"github.com/trezcool/homework/storage/resource"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	stdout io.Writer
}

func (cli *commandLine) printUsage(prog string) {
	fmt.Fprintln(cli.stdout, "Usage:")
	fmt.Fprintf(cli.stdout, "  %s render -source URL|-dir PATH|-canvas [-out FILE] - render the homework dashboard once\n", prog)
}

func (cli *commandLine) run(args []string) error {
	prog := "render"
	if len(args) > 0 {
		prog = filepath.Base(args[0])
	}
	if len(args) < 2 {
		cli.printUsage(prog)
		return errHelp
	}

	renderCmd := flag.NewFlagSet("render", flag.ExitOnError)
	renderSource := renderCmd.String("source", "", "Base URL serving courses.json, overdue.json & courses/...")
	renderDir := renderCmd.String("dir", "", "Directory holding courses.json, overdue.json & courses/...")
	renderCanvas := renderCmd.Bool("canvas", false, "Query Canvas directly. The token is prompted when not configured.")
	renderOut := renderCmd.String("out", "", "Output file (default: stdout)")

	switch args[1] {
	case "render":
		if err := renderCmd.Parse(args[2:]); err != nil {
			return err
		}
		var sources int
		for _, set := range []bool{*renderSource != "", *renderDir != "", *renderCanvas} {
			if set {
				sources++
			}
		}
		if sources != 1 {
			renderCmd.Usage()
			return errHelp
		}

		var src pageloader.Source
		var err error
		switch {
		case *renderSource != "":
			src, err = resource.NewHTTPSource(*renderSource, nil, cli.conf.Canvas.Timeout)
		case *renderDir != "":
			src, err = cli.dirSource(*renderDir)
		default:
			if cli.conf.Canvas.Token == "" {
				fmt.Fprint(os.Stderr, "Enter Canvas token:")
				token, rErr := readPasswordFunc(int(syscall.Stdin))
				fmt.Fprintln(os.Stderr)
				if rErr != nil {
					return rErr
				}
				if len(token) == 0 {
					renderCmd.Usage()
					return errHelp
				}
				cli.conf.Canvas.Token = string(token)
			}
			src, err = cli.canvasSource()
		}
		if err != nil {
			return err
		}
		return cli.render(src, *renderOut)
	default:
		cli.printUsage(prog)
		return errHelp
	}
}

func (cli *commandLine) dirSource(dir string) (*resource.DirSource, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(err, "opening source dir")
	}
	if !fi.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}
	return resource.NewDirSource(os.DirFS(dir)), nil
}

func (cli *commandLine) canvasSource() (*homework.Service, error) {
	client, err := canvas.NewClientFromConfig(cli.conf)
	if err != nil {
		return nil, err
	}
	return homework.NewService(client), nil
}

func (cli *commandLine) render(src pageloader.Source, out string) error {
	registry, err := view.LoadFS(assets.FS, assets.TemplatesDir, view.Options{
		Funcs:  template.FuncMap{"formatDate": homework.FormatDate},
		Strict: cli.conf.Debug || cli.conf.TestMode,
	})
	if err != nil {
		return errors.Wrap(err, "parsing templates")
	}
	loader := pageloader.New(src, registry, cli.logger, pageloader.Options{
		Title:          cli.conf.AppName,
		MaxConcurrency: cli.conf.Loader.MaxConcurrency,
		Timeout:        cli.conf.Loader.Timeout,
		Location:       cli.conf.Loader.TimeLocation(),
	})

	html, err := loader.Dashboard(context.Background())
	if err != nil {
		return err
	}
	if out == "" {
		_, err = io.WriteString(cli.stdout, html)
		return err
	}
	if err = os.WriteFile(out, []byte(html), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}
	cli.logger.Info(fmt.Sprintf("dashboard written to %s", out))
	return nil
}
