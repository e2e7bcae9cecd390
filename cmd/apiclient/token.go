package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kochabx/apiclient/core/credential"
	"github.com/kochabx/apiclient/store"
)

var errNoToken = errors.New("no token stored")

func newTokenCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "manage the persisted bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("a subcommand is required")
			}
			return fmt.Errorf("unknown subcommand: %s", args[0])
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "print the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), modeToken, func(ctx context.Context, s *session) error {
				token := s.tokens.Token(ctx)
				if token == "" {
					return errNoToken
				}
				_, err := fmt.Fprintln(o.stdout, token)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <token>",
		Short: "store a token, - reads it from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := tokenArg(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return o.run(cmd.Context(), modeToken, func(ctx context.Context, s *session) error {
				kv, err := s.writable()
				if err != nil {
					return err
				}
				if err := kv.Set(ctx, s.cfg.Credential.Key, token); err != nil {
					return err
				}
				s.logger.Info().Str("backend", s.cfg.Credential.Backend).Str("key", s.cfg.Credential.Key).Msg("token stored")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "clear",
		Aliases: []string{"logout"},
		Short:   "remove the stored token",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), modeToken, func(ctx context.Context, s *session) error {
				kv, err := s.writable()
				if err != nil {
					return err
				}
				if err := kv.Delete(ctx, s.cfg.Credential.Key); err != nil && !errors.Is(err, store.ErrNotFound) {
					return err
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "inspect",
		Short: "decode the claims of a JWT token without verifying it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), modeToken, func(ctx context.Context, s *session) error {
				token := s.tokens.Token(ctx)
				if token == "" {
					return errNoToken
				}
				info, err := credential.Inspect(token)
				if err != nil {
					return err
				}
				return printInfo(o.stdout, info, time.Now())
			})
		},
	})

	return cmd
}

func tokenArg(arg string, stdin io.Reader) (string, error) {
	token := arg
	if arg == "-" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		token = line
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("token is empty")
	}
	return token, nil
}

type tokenInfo struct {
	Subject   string         `json:"subject,omitempty"`
	Issuer    string         `json:"issuer,omitempty"`
	Audience  []string       `json:"audience,omitempty"`
	IssuedAt  *time.Time     `json:"issued_at,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	Expired   bool           `json:"expired"`
	Claims    map[string]any `json:"claims"`
}

func printInfo(w io.Writer, info *credential.Info, now time.Time) error {
	out := tokenInfo{
		Subject:  info.Subject,
		Issuer:   info.Issuer,
		Audience: info.Audience,
		Expired:  info.Expired(now),
		Claims:   info.Claims,
	}
	if !info.IssuedAt.IsZero() {
		out.IssuedAt = &info.IssuedAt
	}
	if !info.ExpiresAt.IsZero() {
		out.ExpiresAt = &info.ExpiresAt
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
