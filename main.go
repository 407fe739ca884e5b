/*
 *    Copyright (c) 2025 Unrud <unrud@outlook.com>
 *
 *    This file is part of eitype.
 *
 *    eitype is free software: you can redistribute it and/or modify
 *    it under the terms of the GNU General Public License as published by
 *    the Free Software Foundation, either version 3 of the License, or
 *    (at your option) any later version.
 *
 *    eitype is distributed in the hope that it will be useful,
 *    but WITHOUT ANY WARRANTY; without even the implied warranty of
 *    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *    GNU General Public License for more details.
 *
 *    You should have received a copy of the GNU General Public License
 *    along with eitype.  If not, see <http://www.gnu.org/licenses/>.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/unrud/eitype/config"
	"github.com/unrud/eitype/desktop"
	"github.com/unrud/eitype/inputcontrol"
	"github.com/unrud/eitype/keyboard"
	"github.com/unrud/eitype/keymap"
	"github.com/unrud/eitype/logging"
)

const (
	version       string = "0.3.0"
	prettyAppName string = "eitype"
)

type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

// verbosity counts -v flags.
type verbosity struct {
	level *int
	step  int
}

func (v verbosity) String() string {
	if v.level == nil {
		return "0"
	}
	return fmt.Sprint(*v.level)
}

func (v verbosity) Set(s string) error {
	if s != "true" {
		return fmt.Errorf("unexpected value %q", s)
	}
	*v.level += v.step
	return nil
}

func (v verbosity) IsBoolFlag() bool {
	return true
}

type options struct {
	texts       []string
	keys        stringList
	holds       stringList
	pressMods   stringList
	delayMs     uint
	portal      bool
	socket      string
	layout      string
	variant     string
	model       string
	rules       string
	xkbOptions  string
	layoutIndex uint
	failFast    bool
	controller  string
	configPath  string
	verbosity   int
	showVersion bool
	serve       bool
	bind        string
	secret      string
	certFile    string
	keyFile     string

	// set holds the names of the flags given on the command line.
	set map[string]bool
}

func newFlagSet(o *options, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(prettyAppName, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [OPTIONS] [TEXT...]\n\n", prettyAppName)
		fmt.Fprintln(fs.Output(), "Type text and keys through the input emulation of the desktop.")
		fmt.Fprintln(fs.Output())
		fs.PrintDefaults()
	}
	fs.Var(&o.keys, "k", "press and release a named key (repeatable)")
	fs.Var(&o.keys, "key", "same as -k")
	fs.Var(&o.holds, "M", "hold a modifier while typing (repeatable)")
	fs.Var(&o.holds, "mod", "same as -M")
	fs.Var(&o.pressMods, "P", "press and release a modifier (repeatable)")
	fs.Var(&o.pressMods, "press-mod", "same as -P")
	fs.UintVar(&o.delayMs, "d", 0, "delay between key events in milliseconds")
	fs.UintVar(&o.delayMs, "delay", 0, "same as -d")
	fs.BoolVar(&o.portal, "p", false, "use the RemoteDesktop portal")
	fs.BoolVar(&o.portal, "portal", false, "same as -p")
	fs.StringVar(&o.socket, "s", "", "path of the EIS socket")
	fs.StringVar(&o.socket, "socket", "", "same as -s")
	fs.StringVar(&o.layout, "l", "", "XKB layout, e.g. \"us,de\"")
	fs.StringVar(&o.layout, "layout", "", "same as -l")
	fs.StringVar(&o.variant, "variant", "", "XKB layout variant")
	fs.StringVar(&o.model, "model", "", "XKB keyboard model")
	fs.StringVar(&o.xkbOptions, "options", "", "XKB options")
	fs.StringVar(&o.rules, "rules", "", "XKB rules")
	fs.UintVar(&o.layoutIndex, "layout-index", 0, "layout group to type with (default: detect)")
	fs.BoolVar(&o.failFast, "fail-fast", false, "stop at the first character missing from the keymap")
	fs.StringVar(&o.controller, "controller", "", "transport to use (ei, portal, uinput, null)")
	fs.StringVar(&o.configPath, "config", "", "configuration file (default: "+config.ConfigPath()+")")
	fs.Var(verbosity{&o.verbosity, 1}, "v", "increase verbosity (repeatable)")
	fs.Var(verbosity{&o.verbosity, 2}, "vv", "same as -v -v")
	fs.Var(verbosity{&o.verbosity, 3}, "vvv", "same as -v -v -v")
	fs.BoolVar(&o.showVersion, "version", false, "show program's version number and exit")
	fs.BoolVar(&o.serve, "serve", false, "run the remote typing server")
	fs.StringVar(&o.bind, "bind", "", "bind server to [HOSTNAME]:PORT")
	fs.StringVar(&o.secret, "secret", "", "shared secret for client authentication")
	fs.StringVar(&o.certFile, "cert", "", "file containing TLS certificate")
	fs.StringVar(&o.keyFile, "key-file", "", "file containing TLS private key")
	return fs
}

// parseArgs accepts flags and texts in any order. Everything after "--"
// is text.
func parseArgs(args []string, output io.Writer) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs := newFlagSet(o, output)
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			break
		}
		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			o.texts = append(o.texts, rest...)
			break
		}
		o.texts = append(o.texts, rest[0])
		args = rest[1:]
	}
	fs.Visit(func(f *flag.Flag) {
		o.set[canonicalFlag(f.Name)] = true
	})
	return o, nil
}

func canonicalFlag(name string) string {
	switch name {
	case "d":
		return "delay"
	case "p":
		return "portal"
	case "s":
		return "socket"
	case "l":
		return "layout"
	default:
		return name
	}
}

// apply overrides cfg with the flags given on the command line.
func (o *options) apply(cfg *config.Config) {
	strs := []struct {
		flag  string
		value string
		field *string
	}{
		{"layout", o.layout, &cfg.Keyboard.Layout},
		{"variant", o.variant, &cfg.Keyboard.Variant},
		{"model", o.model, &cfg.Keyboard.Model},
		{"options", o.xkbOptions, &cfg.Keyboard.Options},
		{"rules", o.rules, &cfg.Keyboard.Rules},
		{"socket", o.socket, &cfg.Transport.Socket},
		{"controller", o.controller, &cfg.Transport.Controller},
		{"bind", o.bind, &cfg.Server.Bind},
		{"secret", o.secret, &cfg.Server.Secret},
		{"cert", o.certFile, &cfg.Server.CertFile},
		{"key-file", o.keyFile, &cfg.Server.KeyFile},
	}
	for _, s := range strs {
		if o.set[s.flag] {
			*s.field = s.value
		}
	}
	if o.set["delay"] {
		cfg.Typing.DelayMs = o.delayMs
	}
	if o.set["fail-fast"] {
		cfg.Typing.FailFast = o.failFast
	}
	if o.set["layout-index"] {
		index := uint32(o.layoutIndex)
		cfg.Keyboard.LayoutIndex = &index
	}
	if o.portal {
		cfg.Transport.Controller = "portal"
	}
}

func (o *options) actions() []keyboard.Action {
	return keyboard.CommandLineActions(o.holds, o.texts, o.keys, o.pressMods)
}

func setupLogging(cfg *config.Config, o *options, output io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if o.verbosity > 0 {
		level = logging.FromVerbosity(o.verbosity)
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	return logging.Setup(&logging.Config{Level: level, Format: format, Output: output}), nil
}

// layoutIndex returns the configured layout index, else the one reported
// by the receiving side of the keymap in use, else the one active in the
// desktop session.
func layoutIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	reporter inputcontrol.LayoutReporter, detectors []desktop.Detector) keymap.Layout {
	if cfg.Keyboard.LayoutIndex != nil {
		return keymap.Layout(*cfg.Keyboard.LayoutIndex)
	}
	if reporter != nil {
		if index, ok := reporter.ActiveLayout(); ok {
			logger.Info("Using layout index reported by the server", "index", index)
			return keymap.Layout(index)
		}
	}
	index, _ := desktop.Detect(ctx, logger, detectors...)
	return keymap.Layout(index)
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	if o.showVersion {
		fmt.Fprintln(stdout, version)
		return nil
	}
	configPath := o.configPath
	if configPath == "" {
		configPath = config.ConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	o.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := setupLogging(cfg, o, stderr)
	if err != nil {
		return err
	}
	actions := o.actions()
	if len(actions) == 0 && !o.serve {
		return errors.New("nothing to type (see -help)")
	}

	controller, controllerName, err := inputcontrol.Open(cfg.Transport.Controller, inputcontrol.Options{
		Socket:        cfg.Transport.Socket,
		PersistPortal: cfg.Transport.PersistPortal,
		AppName:       prettyAppName,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer controller.Close()
	logger.Info("Using controller", "controller", controllerName)

	km, err := keyboard.NewKeymapLoader(logger).Load(cfg.Keyboard.RuleNames(), controller.Keymap())
	if err != nil {
		return fmt.Errorf("keymap: %w", err)
	}
	defer km.Close()
	var reporter inputcontrol.LayoutReporter
	if km.Source == keyboard.SourceServer {
		reporter, _ = controller.(inputcontrol.LayoutReporter)
	}
	layout := layoutIndex(context.Background(), cfg, logger, reporter, desktop.Detectors())
	logger.Info("Keymap loaded", "source", km.Source, "layouts", km.LayoutNames, "layout_index", layout)
	if int(layout) >= len(km.LayoutNames) {
		logger.Warn("Layout index exceeds the layouts of the keymap, keys fall back to layout 0",
			"layout_index", layout, "layouts", len(km.LayoutNames))
	}

	session := keyboard.NewSession(km, controller, keyboard.Options{
		Layout:   layout,
		Delay:    cfg.Typing.Delay(),
		FailFast: cfg.Typing.FailFast,
		Logger:   logger,
	})
	if o.serve {
		return serve(session, cfg, configPath, o.apply, logger, stdout)
	}
	return session.Execute(actions)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", prettyAppName, err)
		os.Exit(1)
	}
}
