package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// dateKeys are the parameters holding epoch milliseconds; they also accept YYYY-MM-DD
var dateKeys = map[string]bool{"birthday": true, "after": true, "before": true}

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerCountCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerCreateCmd())
	cmd.AddCommand(newPlayerUpdateCmd())
	cmd.AddCommand(newPlayerDeleteCmd())

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	var (
		filters []string
		page    int
		size    int
		order   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseAssignments(filters)
			if err != nil {
				return err
			}

			query := toQuery(params)
			if cmd.Flags().Changed("page") {
				query.Set("pageNumber", strconv.Itoa(page))
			}
			if cmd.Flags().Changed("size") {
				query.Set("pageSize", strconv.Itoa(size))
			}
			if order != "" {
				query.Set("order", strings.ToUpper(order))
			}

			var result []Player
			if err := client.Get("/rest/players", query, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as key=value (repeatable)")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")
	cmd.Flags().IntVar(&size, "size", 3, "Page size")
	cmd.Flags().StringVar(&order, "order", "", "Order: id, name, experience, birthday, level")

	return cmd
}

func newPlayerCountCmd() *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count players matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseAssignments(filters)
			if err != nil {
				return err
			}

			var result Count
			if err := client.Get("/rest/players/count", toQuery(params), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as key=value (repeatable)")

	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Get(playerPath(args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newPlayerCreateCmd() *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a player",
		Long: `Create a player from --set key=value pairs.

Required keys: name, title, race, profession, birthday, experience.
Optional keys: banned. Birthday accepts epoch milliseconds or YYYY-MM-DD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := parseAssignments(fields)
			if err != nil {
				return err
			}

			var result Player
			if err := client.Post("/rest/players", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fields, "set", nil, "Field as key=value (repeatable)")

	return cmd
}

func newPlayerUpdateCmd() *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update some fields of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := parseAssignments(fields)
			if err != nil {
				return err
			}

			var result Player
			if err := client.Post(playerPath(args[0]), body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fields, "set", nil, "Field as key=value (repeatable)")

	return cmd
}

func newPlayerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(playerPath(args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage(fmt.Sprintf("Deleted player %s", args[0]))
			return nil
		},
	}
}

func playerPath(id string) string {
	return "/rest/players/" + url.PathEscape(id)
}

// parseAssignments turns key=value pairs into a parameter map.
// Later assignments of the same key win.
func parseAssignments(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		if dateKeys[key] {
			value = dateMillis(value)
		}
		params[key] = value
	}
	return params, nil
}

// dateMillis rewrites a YYYY-MM-DD date as UTC epoch milliseconds, leaving anything else untouched
func dateMillis(value string) string {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return value
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func toQuery(params map[string]string) url.Values {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	return query
}
