package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pbanos/sapling/config"
	"github.com/pbanos/sapling/queue"
	"github.com/pbanos/sapling/server"
	"github.com/pbanos/sapling/store"
	"github.com/pbanos/sapling/store/redisstore"
	"github.com/spf13/cobra"
	redis "gopkg.in/redis.v5"
)

type serveCmdConfig struct {
	*rootCmdConfig
	configInput string
	envInputs   []string
	addr        string
}

func serveCmd(rootConfig *rootCmdConfig) *cobra.Command {
	cmdConfig := &serveCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long:  `Serve an HTTP API to preview and store sets of data, grow trees from them and use trees to predict`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(cmdConfig.configInput, cmdConfig.envInputs...)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if cmdConfig.addr != "" {
				cfg.Addr = cmdConfig.addr
			}
			if cmdConfig.verbose {
				cfg.LogLevel = "debug"
			}
			logger := cfg.Logger(os.Stderr)
			st, err := newStore(cfg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			defer st.Close(context.Background())
			pool := queue.NewPool(cfg.Workers)
			defer pool.Stop()
			logger.Info("serve: starting", "store", cfg.Store, "workers", cfg.Workers)
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err = server.New(cfg, st, pool, logger).Run(ctx)
			if err != nil {
				logger.Error("serve: stopped", "error", err)
				st.Close(context.Background())
				os.Exit(3)
			}
			logger.Info("serve: stopped")
		},
	}
	cmd.Flags().StringVarP(&(cmdConfig.configInput), "config", "f", "", "path to a YML file with the service configuration (defaults to built-in defaults)")
	cmd.Flags().StringSliceVar(&(cmdConfig.envInputs), "env-file", nil, "paths to .env files to load into the environment (defaults to .env if it exists)")
	cmd.Flags().StringVar(&(cmdConfig.addr), "addr", "", "address to listen on, overriding the configuration")
	return cmd
}

func newStore(cfg *config.Config) (store.Store, error) {
	if cfg.Store != config.StoreRedis {
		return store.NewMemoryStore(), nil
	}
	rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	err := rc.Ping().Err()
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %v", cfg.RedisAddr, err)
	}
	return redisstore.New(rc, cfg.RedisPrefix, cfg.RedisTTL), nil
}
