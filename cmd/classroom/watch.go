package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/classroom-client/internal/repository"
	"github.com/noah-isme/classroom-client/pkg/config"
	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
	"github.com/noah-isme/classroom-client/pkg/storage"
)

func (c *cli) watchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow changes to the local store made by other processes",
		Long: `Watch the file store directory and print the joined classroom list
whenever another process (a second CLI or the bridge) changes it.
Only the file backend can be watched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.app.Files == nil {
				return appErrors.Clone(appErrors.ErrValidation,
					fmt.Sprintf("watch needs the %s store, current backend is %s", config.StoreFile, c.cfg.Store.Backend))
			}

			w, err := storage.NewWatcher(c.app.Files.Dir(), debounce, c.logger.Named("watch"))
			if err != nil {
				return fmt.Errorf("watch store: %w", err)
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s\n", c.app.Files.Dir())
			return w.Run(ctx, func(keys []string) {
				fmt.Fprintf(out, "[%s] changed: %s\n", time.Now().Format(time.TimeOnly), strings.Join(keys, ", "))
				for _, key := range keys {
					if key != repository.KeyClassrooms {
						continue
					}
					items := c.app.Classrooms.Load(ctx)
					if c.asJSON {
						_ = printJSON(out, items)
					} else {
						_ = writeClassrooms(out, items)
					}
				}
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Quiet period before reporting a change")
	return cmd
}
