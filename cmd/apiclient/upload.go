package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apihttp "github.com/kochabx/apiclient/core/net/http"
)

func newUploadCmd(o *options) *cobra.Command {
	var (
		files  []string
		fields []string
		method string
	)

	cmd := &cobra.Command{
		Use:     "upload <endpoint>",
		Short:   "upload files as multipart/form-data",
		Example: "  apiclient upload /files --file file=./report.pdf --field title=Q3",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := buildForm(files, fields)
			if err != nil {
				return err
			}

			return o.run(cmd.Context(), modeAPI, func(ctx context.Context, s *session) error {
				res, err := apihttp.Upload[json.RawMessage](ctx, s.client, args[0], form,
					apihttp.WithMethod(strings.ToUpper(method)))
				if err != nil {
					return err
				}
				return printJSON(o.stdout, res)
			})
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&files, "file", "f", nil, "file part as field=path, repeatable")
	f.StringArrayVarP(&fields, "field", "F", nil, "text part as name=value, repeatable")
	f.StringVarP(&method, "method", "X", apihttp.MethodPost, "HTTP method")
	return cmd
}

func buildForm(files, fields []string) (*apihttp.Form, error) {
	form := apihttp.NewForm()
	for _, kv := range fields {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --field %q, want name=value", kv)
		}
		form.AddField(name, value)
	}
	for _, kv := range files {
		name, path, ok := strings.Cut(kv, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --file %q, want field=path", kv)
		}
		if err := form.AddFilePath(name, path); err != nil {
			return nil, err
		}
	}
	if form.Len() == 0 {
		return nil, fmt.Errorf("nothing to upload, add --file or --field")
	}
	return form, nil
}
