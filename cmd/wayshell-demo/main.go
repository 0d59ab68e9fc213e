// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command wayshell-demo opens one window on the running compositor and
// logs its lifecycle: configures, scale changes, paints, and pointer
// input. It exists to exercise the library end to end; there is no
// rendering beyond the compositor's own decorations.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wayshell/wayshell"
	"github.com/wayshell/wayshell/events"
	"github.com/wayshell/wayshell/geom"
	"github.com/wayshell/wayshell/wayland"
)

// config is the optional YAML config file, overridden by flags.
type config struct {
	Title       string  `yaml:"title"`
	AppID       string  `yaml:"app_id"`
	Width       float32 `yaml:"width"`
	Height      float32 `yaml:"height"`
	Decorations string  `yaml:"decorations"` // "server" or "client"
	LogLevel    string  `yaml:"log_level"`
}

func defaultConfig() config {
	return config{
		Title:       "wayshell demo",
		AppID:       "org.wayshell.demo",
		Width:       800,
		Height:      600,
		Decorations: "server",
		LogLevel:    "info",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("wayshell-demo failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML config file")
	title := flag.String("title", "", "window title (overrides config)")
	width := flag.Float64("width", 0, "initial logical width (overrides config)")
	height := flag.Float64("height", 0, "initial logical height (overrides config)")
	closeAfter := flag.Duration("close-after", 0, "close the window after this long (0 = stay open)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *title != "" {
		cfg.Title = *title
	}
	if *width > 0 {
		cfg.Width = float32(*width)
	}
	if *height > 0 {
		cfg.Height = float32(*height)
	}

	level := slog.LevelInfo
	if cfg.LogLevel == "debug" || *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	conn, err := wayland.Connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	app, err := wayshell.NewApp(conn)
	if err != nil {
		return err
	}

	deco := wayshell.DecorationServer
	if cfg.Decorations == "client" {
		deco = wayshell.DecorationClient
	}

	h := &demoHandler{}
	win, err := app.NewWindow().
		SetTitle(cfg.Title).
		SetAppID(cfg.AppID).
		SetSize(geom.Sz(cfg.Width, cfg.Height)).
		SetDecorations(deco).
		SetHandler(h).
		Build()
	if err != nil {
		return err
	}
	win.Show()

	if *closeAfter > 0 {
		go func() {
			time.Sleep(*closeAfter)
			if ih := win.IdleHandle(); ih != nil {
				ih.AddCallback(func(wayshell.Handler) {
					slog.Info("close-after deadline reached")
					win.Close()
				})
			}
		}()
	}

	return app.Run()
}

// demoHandler logs everything it is told. It owns no pixels; paint
// logging stands in for rendering.
type demoHandler struct {
	win    *wayshell.WindowHandle
	frames int
}

func (h *demoHandler) Connect(win *wayshell.WindowHandle) { h.win = win }

func (h *demoHandler) Size(sz geom.Size) {
	slog.Info("size", "width", sz.Width, "height", sz.Height)
}

func (h *demoHandler) Scale(scale geom.Scale) {
	slog.Info("scale", "factor", scale)
}

func (h *demoHandler) PreparePaint() {}

func (h *demoHandler) Paint(region geom.Region) {
	h.frames++
	slog.Debug("paint", "frame", h.frames, "region", region)
}

func (h *demoHandler) RequestClose() {
	slog.Info("close requested")
	h.win.Close()
}

func (h *demoHandler) Idle(token wayshell.IdleToken) {
	slog.Debug("idle token", "token", token)
}

func (h *demoHandler) Destroy() {
	slog.Info("window destroyed", "frames", h.frames)
}

func (h *demoHandler) Key(e events.Key) {
	slog.Info("key", "seat", e.Seat, "keycode", e.Keycode, "pressed", e.Pressed)
}

func (h *demoHandler) Pointer(e events.Pointer) {
	switch e.Kind {
	case events.PointerButton:
		slog.Info("button", "seat", e.Seat, "button", e.Button, "pressed", e.Pressed, "x", e.X, "y", e.Y)
	case events.PointerLeave:
		slog.Debug("pointer left", "seat", e.Seat)
	default:
		slog.Debug("motion", "seat", e.Seat, "x", e.X, "y", e.Y)
	}
}
