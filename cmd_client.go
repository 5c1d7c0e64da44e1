package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"minimarket/client"
	"minimarket/config"
	"minimarket/dispatcher"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	apiToken  string
	listArgs  dispatcher.ListParams
)

var listCmd = &cobra.Command{
	Use:   "list <module>",
	Short: "List a module's rows from a running server",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <module> <id>",
	Short: "Delete (or deactivate) one row through a running server",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func init() {
	for _, c := range []*cobra.Command{listCmd, deleteCmd} {
		c.Flags().StringVar(&serverURL, "url", "", "server base URL (default http://localhost:<api_port>)")
		c.Flags().StringVar(&apiToken, "token", "", "API token (default security.api_token)")
	}
	listCmd.Flags().IntVar(&listArgs.Page, "page", 1, "page number")
	listCmd.Flags().IntVar(&listArgs.Limit, "limit", 10, "rows per page")
	listCmd.Flags().StringVar(&listArgs.Search, "search", "", "case-insensitive filter")
	listCmd.Flags().StringVar(&listArgs.Sort, "sort", "", "sort field")
	listCmd.Flags().StringVar(&listArgs.Order, "order", "", "ASC or DESC")
}

func newClient() (*client.Client, error) {
	conf, err := config.Get(configPath)
	if err != nil {
		return nil, err
	}
	base := serverURL
	if base == "" {
		base = "http://localhost:" + conf.ApiPort
	}
	token := apiToken
	if token == "" {
		token = conf.Security.ApiToken
	}
	return client.New(base, client.WithToken(token)), nil
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	page, err := c.List(cmd.Context(), args[0], listArgs)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("id inválido: %s", args[1])
	}
	c, err := newClient()
	if err != nil {
		return err
	}
	r, err := c.Delete(cmd.Context(), args[0], id)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.Message)
	return nil
}
