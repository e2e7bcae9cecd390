package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apihttp "github.com/kochabx/apiclient/core/net/http"
)

func newRequestCmd(o *options) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "request <method> <endpoint>",
		Short: "send a JSON request",
		Long: "Send a JSON request to the endpoint and print the JSON response.\n" +
			"--data takes a JSON document, or @file to read one from a file (@- for stdin).",
		Example: "  apiclient request GET /users/1\n  apiclient request POST /users --data '{\"name\":\"ada\"}'",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			endpoint := args[1]

			opts := []apihttp.RequestOption{apihttp.WithMethod(method)}
			if cmd.Flags().Changed("data") {
				body, err := readData(data, cmd.InOrStdin())
				if err != nil {
					return err
				}
				opts = append(opts, apihttp.WithBody(body))
			}

			return o.run(cmd.Context(), modeAPI, func(ctx context.Context, s *session) error {
				res, err := apihttp.Request[json.RawMessage](ctx, s.client, endpoint, opts...)
				if err != nil {
					return err
				}
				return printJSON(o.stdout, res)
			})
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	return cmd
}

// readData returns the --data value as raw JSON
func readData(data string, stdin io.Reader) (json.RawMessage, error) {
	raw := []byte(data)
	if name, ok := strings.CutPrefix(data, "@"); ok {
		var err error
		if name == "-" {
			raw, err = io.ReadAll(stdin)
		} else {
			raw, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, err
		}
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("--data is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// printJSON writes an indented rendition of raw followed by a newline
func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
