package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke [service] [method] [args...]",
	Short: "Call any service operation by name",
	Long: `Calls a registered service operation with positional arguments. Each argument
is parsed as JSON when it is valid JSON and passed as a plain string otherwise.

Examples:

  $ eunoia invoke entries getEntries '{"sentiment":"positive","limit":5}'
  $ eunoia invoke tags createTag travel
  $ eunoia invoke --list`,
	Args: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, m := range a.Registry.Methods() {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		}

		callArgs := make([]any, 0, len(args)-2)
		for _, raw := range args[2:] {
			if json.Valid([]byte(raw)) {
				callArgs = append(callArgs, json.RawMessage(raw))
			} else {
				callArgs = append(callArgs, raw)
			}
		}
		out, err := a.Registry.Call(cmdContext(cmd), args[0], args[1], callArgs...)
		if err != nil {
			return err
		}
		return printJSON(cmd, out)
	},
}

func initInvokeCmd() {
	invokeCmd.Flags().Bool("list", false, "List every registered operation")
}
