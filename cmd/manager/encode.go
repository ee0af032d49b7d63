package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/starvoid/AcerRGB/system/rgb"
	"github.com/starvoid/AcerRGB/system/wmi"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <commands>...",
	Short: "Decode a command string and print the records it produces",
	Long: `Runs the command string through the decoder against an in-memory firmware
and prints every record that would be sent, one per line, as
"<method> <hex bytes>". Nothing is sent to the keyboard.`,
	Example: `  manager encode "m3 v5 c255 0 0"
  manager encode "z1 0x10 0 0xff b100"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeEncode(cmd.OutOrStdout(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}

// executeEncode prints the records already dispatched even when decoding fails
// part way, since zone records are sent as soon as they are read
func executeEncode(w io.Writer, commands string) error {
	recorder := wmi.NewRecorder()
	writer, err := rgb.NewWriter(recorder)
	if err != nil {
		return err
	}

	_, writeErr := writer.WriteString(commands)
	for _, call := range recorder.Calls() {
		fmt.Fprintf(w, "%s %s\n", call.Method, hex.EncodeToString(call.Args))
	}
	if writeErr != nil {
		return errors.Wrapf(writeErr, "code %d", rgb.Code(writeErr))
	}
	return nil
}
