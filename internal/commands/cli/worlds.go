package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/kofuk/mclaunch/internal/archive"
	"github.com/kofuk/mclaunch/internal/config"
	"github.com/kofuk/mclaunch/internal/s3wrap"
	"github.com/spf13/cobra"
)

// NewWorldsCommand lists world archives stored in a bucket, ready to be used as a
// world_path.
func NewWorldsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "worlds s3://bucket[/prefix]",
		Short: "List world archives in an S3 bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, ok, err := s3wrap.ParseLocation(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("location must start with s3://")
			}

			settings, err := config.Load()
			if err != nil {
				return err
			}

			client, err := s3wrap.New(cmd.Context(), settings.S3ForcePathStyle)
			if err != nil {
				return err
			}
			objects, err := client.ListObjects(cmd.Context(), loc)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, headerStyle.Render("LOCATION")+"\t"+headerStyle.Render("SIZE")+"\t"+headerStyle.Render("MODIFIED"))
			for _, obj := range objects {
				if !archive.IsArchive(obj.Key) {
					continue
				}
				ref := s3wrap.Location{Bucket: loc.Bucket, Key: obj.Key}
				fmt.Fprintf(w, "%s\t%d\t%s\n", ref, obj.Size, obj.Timestamp.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}
