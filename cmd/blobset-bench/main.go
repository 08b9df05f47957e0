// Command blobset-bench drives an add/contains/remove workload against one of
// the blobset implementations and logs what happened.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config

	cmd := &cobra.Command{
		Use:          "blobset-bench",
		Short:        "run a set workload over random fixed-size keys",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cfg.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return run(log, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.impl, "impl", "oaset", "set implementation: oaset or chainset")
	flags.IntVar(&cfg.keys, "keys", 1_000_000, "number of keys to add")
	flags.IntVar(&cfg.keySize, "key-size", 16, "bytes per key")
	flags.IntVar(&cfg.capacity, "capacity", 0, "initial capacity hint")
	flags.StringVar(&cfg.hash, "hash", "djb2", "hash function: djb2 or xxh3")
	flags.Uint64Var(&cfg.seed, "seed", 1, "random seed for key generation")
	flags.StringVar(&cfg.out, "out", "", "write the final set to this file")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "log every phase at debug level")

	return cmd
}
