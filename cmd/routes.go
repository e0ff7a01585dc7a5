package cmd

import (
	"os"
	"strings"

	"blogrig-server/handlers"
	"blogrig-server/routes"

	"github.com/gorilla/mux"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the API routes",
	Args:  cobra.NoArgs,
	RunE:  listRoutes,
}

func init() {
	RootCmd.AddCommand(routesCmd)
}

func listRoutes(cmd *cobra.Command, args []string) error {
	// handlers are only registered, never called, so no dependencies are needed
	r := routes.NewRouter(handlers.New(handlers.Deps{}), routes.Options{})

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Method", "Path"})
	table.SetAutoWrapText(false)

	err := r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			// prefix-only routes such as the /api subrouter
			return nil
		}
		table.Append([]string{strings.Join(methods, ", "), path})
		return nil
	})
	if err != nil {
		return err
	}

	table.Render()
	return nil
}
