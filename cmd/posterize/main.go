// posterize exports self-contained HTML posters as high-resolution PNG
// images using headless Chrome.
//
// Usage:
//
//	posterize export [options] <poster.html | bundle.zip>
//	posterize presets
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	htmlposter "github.com/porticus-lab/go-html-poster"
)

func main() {
	app := &cli.App{
		Name:  "posterize",
		Usage: "export HTML posters as high-resolution PNG images",
		Commands: []*cli.Command{
			exportCommand(),
			presetsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "render an HTML document or ZIP bundle to PNG",
		ArgsUsage: "<poster.html | bundle.zip>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "density",
				Aliases: []string{"d"},
				Value:   "hq-print",
				Usage:   fmt.Sprintf("density preset (%s) or a ppi value", strings.Join(htmlposter.Presets(), ", ")),
			},
			&cli.StringFlag{
				Name:  "selector",
				Value: htmlposter.DefaultSelector,
				Usage: "CSS selector of the element to capture",
			},
			&cli.IntFlag{
				Name:  "width",
				Value: htmlposter.DefaultViewportWidth,
				Usage: "nominal poster width in CSS pixels",
			},
			&cli.IntFlag{
				Name:  "height",
				Value: htmlposter.DefaultViewportHeight,
				Usage: "nominal poster height in CSS pixels",
			},
			&cli.StringFlag{
				Name:    "out-dir",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "directory the PNG is written to",
			},
			&cli.StringFlag{
				Name:  "chrome-path",
				Usage: "path to the Chrome/Chromium executable",
			},
			&cli.BoolFlag{
				Name:  "no-sandbox",
				Usage: "disable the Chrome sandbox (needed when running as root)",
			},
			&cli.BoolFlag{
				Name:  "auto-download",
				Usage: "download a Chromium binary when none is installed",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "abort the render after this duration (default: none)",
			},
		},
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one input path, got %d", c.NArg())
	}
	input := c.Args().First()

	density, err := parseDensity(c.String("density"))
	if err != nil {
		return err
	}

	var opts []htmlposter.Option
	if p := c.String("chrome-path"); p != "" {
		opts = append(opts, htmlposter.WithChromePath(p))
	}
	if c.Bool("no-sandbox") {
		opts = append(opts, htmlposter.WithNoSandbox())
	}
	if c.Bool("auto-download") {
		opts = append(opts, htmlposter.WithAutoDownload())
	}
	if d := c.Duration("timeout"); d > 0 {
		opts = append(opts, htmlposter.WithTimeout(d))
	}

	req := &htmlposter.RenderRequest{
		Selector:       c.String("selector"),
		Density:        density,
		ViewportWidth:  c.Int("width"),
		ViewportHeight: c.Int("height"),
	}

	start := time.Now()
	var res *htmlposter.Result
	if strings.EqualFold(filepath.Ext(input), ".zip") {
		res, err = htmlposter.RenderArchive(c.Context, input, req, opts...)
	} else {
		req.DocumentPath = input
		res, err = htmlposter.Render(c.Context, req, opts...)
	}
	if err != nil {
		return err
	}

	info, err := htmlposter.Export(res, c.String("out-dir"))
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("%s\nelapsed: %s", info.Summary(), time.Since(start).Round(time.Millisecond))
	if isatty.IsTerminal(os.Stdout.Fd()) {
		summary = "\x1b[32m" + summary + "\x1b[0m"
	}
	fmt.Println(summary)
	return nil
}

// parseDensity accepts a preset name or a bare ppi integer.
func parseDensity(s string) (htmlposter.Density, error) {
	if d, err := htmlposter.ParsePreset(s); err == nil {
		return d, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid density %q: use one of %s or a positive ppi value",
			s, strings.Join(htmlposter.Presets(), ", "))
	}
	return htmlposter.Density(n), nil
}

func presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "list the recognized density presets",
		Action: func(c *cli.Context) error {
			for _, name := range htmlposter.Presets() {
				d, _ := htmlposter.ParsePreset(name)
				fmt.Printf("%-12s %4d ppi  (scale %.4gx)\n", name, d, d.ScaleFactor())
			}
			return nil
		},
	}
}
