package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/pcapscan/internal/log"
	"firestige.xyz/pcapscan/internal/metrics"
	"firestige.xyz/pcapscan/internal/readpcap"
	"firestige.xyz/pcapscan/internal/sink/console"
	"firestige.xyz/pcapscan/internal/table"
)

var (
	readBatchSize     int
	readLimit         int
	readFormat        string
	readMetricsListen string
)

var readCmd = &cobra.Command{
	Use:   "read <file>",
	Short: "Decode a pcap file and print its records as rows",
	Long: `Read registers the read_pcap table function against an in-process
registry, binds it to the given file, and drains batches to the console —
the same pull protocol an embedding query engine drives.

Use "-" (or /dev/stdin) as the file to stream from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	readCmd.Flags().IntVar(&readBatchSize, "batch-size", 0,
		"rows per batch (0 = config default)")
	readCmd.Flags().IntVar(&readLimit, "limit", 0,
		"stop after this many rows (0 = all)")
	readCmd.Flags().StringVar(&readFormat, "format", console.FormatText,
		"row output format (text/json)")
	readCmd.Flags().StringVar(&readMetricsListen, "metrics-listen", "",
		"expose Prometheus metrics on this address while reading")
}

func runRead(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	batchSize := cfg.Reader.BatchSize
	if readBatchSize > 0 {
		batchSize = readBatchSize
	}

	listen := readMetricsListen
	if listen == "" && cfg.Metrics.Enabled {
		listen = cfg.Metrics.Listen
	}
	if listen != "" {
		srv := metrics.NewServer(listen, cfg.Metrics.Path)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer srv.Stop(ctx)
	}

	reg := table.NewRegistry()
	if err := readpcap.Register(reg); err != nil {
		return err
	}
	fn, err := reg.Lookup(readpcap.Name)
	if err != nil {
		return err
	}

	binding, err := fn.Bind(table.Arguments{
		Positional: []any{args[0]},
		Named:      map[string]any{"batch_size": batchSize},
	})
	if err != nil {
		return err
	}

	scanner, err := binding.Init()
	if err != nil {
		return err
	}
	defer scanner.Close()

	sink, err := console.NewSink(os.Stdout, readFormat, binding.Schema())
	if err != nil {
		return err
	}
	defer sink.Close()

	batch := table.NewBatch(binding.Schema(), batchSize)
	total := 0
	for {
		capacity := batch.Cap()
		if readLimit > 0 && readLimit-total < capacity {
			capacity = readLimit - total
			batch = table.NewBatch(binding.Schema(), capacity)
		}
		if capacity == 0 {
			break
		}

		batch.Reset()
		rows, done := scanner.Scan(batch)
		if rows > 0 {
			if err := sink.Send(batch); err != nil {
				return err
			}
			total += rows
		}
		if done || rows == 0 {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		log.GetLogger().WithError(err).Warn("capture ended early; rows decoded before the stop are complete")
	}
	log.GetLogger().WithField("rows", total).Info("read finished")
	return nil
}
