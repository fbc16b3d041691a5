// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/journal-metrics/internal/cache"
	"github.com/pdiddy/journal-metrics/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local response cache",
	Long: `Cache manages the expiring response cache. Entries expire on their own
after 24 hours; 'clear' removes them immediately.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("cache-dir")
		store, err := cache.Open(types.CacheConfig{Dir: dir})
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cache entries from %s\n", store.Clear(), store.Dir())
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", defaultCacheDir, "response cache directory")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
