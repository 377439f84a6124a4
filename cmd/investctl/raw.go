package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
)

func newGetCmd(a *app) *cobra.Command {
	var params map[string]string
	cmd := &cobra.Command{
		Use:   "get <service> <path>",
		Short: "GET a path of one service and print the body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(args[0])
			if err != nil {
				return err
			}
			resp, err := c.Get(cmd.Context(), args[1], httpclient.RequestConfig{Params: toParams(params)})
			if err != nil {
				return err
			}
			if total := resp.Headers.Get("X-Total-Count"); total != "" {
				printf(a.stderr, "x-total-count: %s\n", total)
			}
			return a.printBody(resp)
		},
	}
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "query parameter key=value (repeatable)")
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <service> <path>",
		Short: "Fetch the JSON schema a collection publishes via OPTIONS",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(args[0])
			if err != nil {
				return err
			}
			resp, err := c.Options(cmd.Context(), args[1], httpclient.RequestConfig{Type: httpclient.TypeJSON})
			if err != nil {
				return err
			}
			if len(bytes.TrimSpace(resp.Raw())) == 0 {
				return fmt.Errorf("%s publishes no schema for %s", args[0], args[1])
			}
			return a.printBody(resp)
		},
	}
}

func toParams(in map[string]string) httpclient.Params {
	if len(in) == 0 {
		return nil
	}
	out := make(httpclient.Params, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (a *app) printBody(resp *httpclient.Response) error {
	switch resp.Type {
	case httpclient.TypeJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, resp.Raw(), "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err := a.stdout.Write(buf.Bytes())
		return err
	default:
		s, _ := resp.Data.(string)
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		_, err := a.stdout.Write([]byte(s))
		return err
	}
}
