package resources

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/crucial707/catalog/cmd/cli/client"
	"github.com/crucial707/catalog/cmd/cli/config"
	"github.com/crucial707/catalog/cmd/cli/output"
	"github.com/spf13/cobra"
)

// resource describes one API collection and the columns shown by list.
type resource struct {
	name    string
	single  string
	columns []string
}

var catalog = []resource{
	{"products", "product", []string{"id", "name", "price", "units", "stock"}},
	{"books", "book", []string{"id", "isbn", "title", "author", "price", "year", "available"}},
	{"employees", "employee", []string{"id", "name", "email", "salary"}},
	{"questions", "question", []string{"id", "text", "answer", "asked_by"}},
}

// ==========================
// Init Resources
// ==========================
func InitResources(rootCmd *cobra.Command) {
	for _, res := range catalog {
		cmd := &cobra.Command{
			Use:   res.name,
			Short: "Manage " + res.name,
		}
		cmd.AddCommand(
			listCmd(res),
			getCmd(res),
			createCmd(res),
			updateCmd(res),
			deleteCmd(res),
		)
		rootCmd.AddCommand(cmd)
	}
}

func authedClient() (*client.Client, error) {
	token, err := config.LoadToken()
	if err != nil {
		return nil, err
	}
	return client.New(config.APIURL(), token), nil
}

// ==========================
// LIST
// ==========================
func listCmd(res resource) *cobra.Command {
	var (
		search  string
		filters []string
		limit   int
		offset  int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + res.name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}

			q := url.Values{}
			if search != "" {
				q.Set("search", search)
			}
			for _, f := range filters {
				k, v, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("--filter %q: want field=value", f)
				}
				q.Set(k, v)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				q.Set("offset", strconv.Itoa(offset))
			}
			path := "/api/" + res.name
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var records []map[string]any
			if _, err := c.Do(cmd.Context(), "GET", path, nil, &records); err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), records)
			}
			output.RenderRecords(cmd.OutOrStdout(), res.columns, records)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "case-insensitive text search")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "field=value filter (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records")
	cmd.Flags().IntVar(&offset, "offset", 0, "records to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// ==========================
// GET
// ==========================
func getCmd(res resource) *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one " + res.single,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			var rec map[string]any
			if _, err := c.Do(cmd.Context(), "GET", "/api/"+res.name+"/"+args[0], nil, &rec); err != nil {
				return err
			}
			return output.RenderJSON(cmd.OutOrStdout(), rec)
		},
	}
}

// ==========================
// CREATE
// ==========================
func createCmd(res resource) *cobra.Command {
	var data string
	var sets []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + res.single,
		Example: fmt.Sprintf("  catalog %s create --data '{...}'\n  catalog %s create --set name=Widget --set price:=9.99",
			res.name, res.name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := buildBody(data, sets)
			if err != nil {
				return err
			}
			c, err := authedClient()
			if err != nil {
				return err
			}
			var rec map[string]any
			if _, err := c.Do(cmd.Context(), "POST", "/api/"+res.name, body, &rec); err != nil {
				return err
			}
			return output.RenderJSON(cmd.OutOrStdout(), rec)
		},
	}

	addBodyFlags(cmd, &data, &sets)
	return cmd
}

// ==========================
// UPDATE
// ==========================

// updateCmd sends PATCH with the given fields, or PUT with --replace.
func updateCmd(res resource) *cobra.Command {
	var data string
	var sets []string
	var replace bool

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a " + res.single,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := buildBody(data, sets)
			if err != nil {
				return err
			}
			c, err := authedClient()
			if err != nil {
				return err
			}
			method := "PATCH"
			if replace {
				method = "PUT"
			}
			if _, err := c.Do(cmd.Context(), method, "/api/"+res.name+"/"+args[0], body, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", res.single, args[0])
			return nil
		},
	}

	addBodyFlags(cmd, &data, &sets)
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the whole record (PUT) instead of the given fields")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteCmd(res resource) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a " + res.single,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			if _, err := c.Do(cmd.Context(), "DELETE", "/api/"+res.name+"/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", res.single, args[0])
			return nil
		},
	}
}

func addBodyFlags(cmd *cobra.Command, data *string, sets *[]string) {
	cmd.Flags().StringVar(data, "data", "", "JSON object with the record fields")
	cmd.Flags().StringArrayVar(sets, "set", nil, "field=text or field:=json (repeatable)")
}

// buildBody merges --data with --set assignments. "k=v" sets a string and
// "k:=v" sets a raw JSON value such as a number or boolean.
func buildBody(data string, sets []string) (map[string]any, error) {
	body := map[string]any{}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &body); err != nil {
			return nil, fmt.Errorf("--data: %w", err)
		}
	}
	for _, s := range sets {
		if k, raw, ok := strings.Cut(s, ":="); ok && !strings.Contains(k, "=") {
			var v any
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return nil, fmt.Errorf("--set %s: %w", s, err)
			}
			body[k] = v
			continue
		}
		k, v, ok := strings.Cut(s, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("--set %q: want field=value or field:=json", s)
		}
		body[k] = v
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("nothing to send; use --data or --set")
	}
	return body, nil
}
