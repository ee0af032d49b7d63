package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/starvoid/AcerRGB/system/device"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <commands>...",
	Short: "Send a command string to the running daemon",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		return executeSend(cmd.OutOrStdout(), conf.Device.Path, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func executeSend(w io.Writer, path string, commands string) error {
	n, err := device.Send(path, []byte(commands))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[OK] applied %d bytes\n", n)
	return nil
}
