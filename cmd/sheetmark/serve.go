package main

import (
	"sheetmark/adapters/httpapi"

	"github.com/spf13/cobra"
)

func newServeCmd(appCtx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the grading HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := appCtx.service(true)
			if err != nil {
				return err
			}
			server := httpapi.NewServer(service, appCtx.schemes(), appCtx.cfg.Server.GinMode, appCtx.log)
			return server.Run(appCtx.cfg.Server.Port)
		},
	}
}
