// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cmd implements the zkprobe commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gogama/zkx"
	"github.com/gogama/zkx/config"
	"github.com/spf13/cobra"
)

type globals struct {
	configFile string
	envFiles   []string
	logLevel   string
	logFormat  string
	timeout    time.Duration
}

// NewRootCmd returns the zkprobe root command with all subcommands.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "zkprobe",
		Short: "Probe a ZooKeeper ensemble through a configured client",
		Long: `zkprobe builds a ZooKeeper client from a client document (XML, YAML
or TOML), verifies that the ensemble is reachable, and runs simple
read-only operations through it.

Attribute values in the document may refer to environment variables as
${VAR}. Variables are taken from the process environment and from any
files given with --env-file.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "client document (.xml, .yaml, .yml or .toml)")
	pf.StringSliceVar(&g.envFiles, "env-file", nil, ".env file for ${VAR} expansion (repeatable)")
	pf.StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&g.logFormat, "log-format", "text", "log format: text or json")
	pf.DurationVar(&g.timeout, "timeout", 30*time.Second, "overall time limit of the command")

	root.AddCommand(
		newCheckCmd(g),
		newLsCmd(g),
		newGetCmd(g),
		newPoliciesCmd(),
	)
	return root
}

// Execute runs the zkprobe root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (g *globals) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", g.logLevel)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(g.logFormat) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", g.logFormat)
	}
}

// connect loads the client document, builds the client and runs fn
// with it. The client is closed when fn returns.
func (g *globals) connect(cmd *cobra.Command, fn func(ctx context.Context, c *zkx.Client) error) error {
	if g.configFile == "" {
		return errors.New("--config is required")
	}

	logger, err := g.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg, err := config.LoadFile(g.configFile, config.WithEnvFiles(g.envFiles...))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
	defer cancel()

	b := zkx.NewBuilder(*cfg)
	b.Logger = logger
	defer b.Close()

	c, err := b.Build(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, c)
}
