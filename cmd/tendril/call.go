package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/registry"
)

var callCmd = &cobra.Command{
	Use:   "call <endpoint-id>",
	Short: "Dispatch a call to a registered endpoint",
	Long: `Dispatches a call action for the given endpoint and waits for its
terminal action. A call that exceeds the dispatch timeout produces no result
and exits with an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cfg.Debug)

		d, err := cli.NewDispatcher(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d.Attach(ctx)

		opts, err := callOptions(cmd)
		if err != nil {
			return err
		}

		call, err := d.Registry().Call(args[0], opts...)
		if err != nil {
			return err
		}

		async, _ := cmd.Flags().GetBool("async")
		if async {
			if err := d.Dispatch(ctx, call); err != nil {
				return err
			}
			fmt.Println(call.CorrelationID())
			return nil
		}

		waitLimit, _ := cmd.Flags().GetDuration("wait")
		waitCtx, cancel := context.WithTimeout(ctx, waitLimit)
		defer cancel()

		act, err := d.Execute(waitCtx, call)
		if err != nil {
			if errors.Is(err, domain.ErrNoTerminal) {
				return fmt.Errorf("call %q produced no result within %s", args[0], waitLimit)
			}
			return err
		}

		out, err := json.MarshalIndent(map[string]any{
			"type":    act.Type,
			"payload": act.Payload,
			"meta":    act.Meta,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		inv, err := domain.InvocationFrom(call)
		if err == nil && act.Type == inv.Labels.Failure {
			os.Exit(1)
		}
		return nil
	},
}

func callOptions(cmd *cobra.Command) ([]registry.CallOption, error) {
	var opts []registry.CallOption

	if raw, _ := cmd.Flags().GetString("body"); raw != "" {
		var body map[string]any
		if err := json.Unmarshal([]byte(raw), &body); err != nil {
			return nil, fmt.Errorf("invalid --body: %w", err)
		}
		opts = append(opts, registry.WithBody(body))
	}
	if params, _ := cmd.Flags().GetStringToString("param"); len(params) > 0 {
		converted := make(map[string]any, len(params))
		for k, v := range params {
			converted[k] = v
		}
		opts = append(opts, registry.WithPathParams(converted))
	}
	if query, _ := cmd.Flags().GetStringToString("query"); len(query) > 0 {
		opts = append(opts, registry.WithQuery(query))
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		opts = append(opts, registry.WithServer(server))
	}
	if delay, _ := cmd.Flags().GetDuration("delay"); delay > 0 {
		opts = append(opts, registry.WithDelay(delay))
	}
	return opts, nil
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().String("body", "", "JSON request body")
	callCmd.Flags().StringToString("param", nil, "Path parameter binding (name=value)")
	callCmd.Flags().StringToString("query", nil, "Query string parameter (name=value)")
	callCmd.Flags().String("server", "", "Server URL override for this call")
	callCmd.Flags().Duration("delay", 0, "Delay before the call is performed")
	callCmd.Flags().Bool("async", false, "Dispatch and print the correlation ID without waiting")
	callCmd.Flags().Duration("wait", 30*time.Second, "How long to wait for the terminal action")
}
