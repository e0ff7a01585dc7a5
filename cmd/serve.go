package cmd

import (
	"log"

	"blogrig-server/config"
	"blogrig-server/db"
	"blogrig-server/setup"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the API server",
	Args:  cobra.NoArgs,
	Run:   serve,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	conn := setup.MustInitDb(cfg)
	defer conn.Close()

	h := setup.NewHandler(cfg, db.NewPgStore(conn))
	setup.StartServer(cfg, h)
}
