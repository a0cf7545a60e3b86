package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"shop-order-scheduler/internal/domain/order"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var validateTimeZone string

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an order draft without submitting it",
	Long:  `Reads an order draft as JSON from a file (or stdin when omitted or "-") and prints every field error.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateTimeZone, "tz", "UTC", "zone for local datetimes without an offset")
}

func runValidate(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open draft")
		}
		defer f.Close()
		r = f
	}

	var draft order.Draft
	if err := json.NewDecoder(r).Decode(&draft); err != nil {
		return errors.Wrap(err, "decode draft")
	}

	n, err := checkDraft(cmd.OutOrStdout(), draft, validateTimeZone)
	if err != nil {
		return err
	}
	if n > 0 {
		cmd.SilenceUsage = true
		return errors.Newf("%d validation error(s)", n)
	}
	return nil
}

// checkDraft writes one line per field error and returns how many it found.
// Resource existence is not checked here; that needs the live resource list.
func checkDraft(w io.Writer, draft order.Draft, tz string) (int, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return 0, errors.Wrapf(err, "time zone %q", tz)
	}

	_, verrs := draft.Validate(loc)
	if len(verrs) == 0 {
		fmt.Fprintln(w, "ok")
		return 0, nil
	}
	for _, fe := range verrs {
		fmt.Fprintf(w, "%s: %s\n", fe.Field, fe.Message)
	}
	return len(verrs), nil
}
