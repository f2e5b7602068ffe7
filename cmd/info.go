package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/pcapscan/internal/pcap"
)

var infoFormat string

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print the resolved pcap stream header",
	Long: `Info reads the 24-byte stream header, resolves byte order and timestamp
precision from the magic number, and prints the corrected header fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&infoFormat, "format", "text",
		"output format (text/json/yaml)")
}

// headerInfo is the printable view of a resolved stream header.
type headerInfo struct {
	Magic         string `json:"magic" yaml:"magic"`
	ByteOrder     string `json:"byte_order" yaml:"byte_order"`
	TimestampUnit string `json:"timestamp_unit" yaml:"timestamp_unit"`
	Version       string `json:"version" yaml:"version"`
	ThisZone      int32  `json:"thiszone" yaml:"thiszone"`
	SigFigs       uint32 `json:"sigfigs" yaml:"sigfigs"`
	SnapLen       uint32 `json:"snaplen" yaml:"snaplen"`
	LinkType      string `json:"link_type" yaml:"link_type"`
	Network       uint32 `json:"network" yaml:"network"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	r, err := pcap.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	h := r.Header()
	info := headerInfo{
		Magic:         fmt.Sprintf("0x%08x", h.Magic),
		ByteOrder:     h.ByteOrder().String(),
		TimestampUnit: h.TimestampUnit().String(),
		Version:       fmt.Sprintf("%d.%d", h.VersionMajor, h.VersionMinor),
		ThisZone:      h.ThisZone,
		SigFigs:       h.SigFigs,
		SnapLen:       h.SnapLen,
		LinkType:      h.LinkType().String(),
		Network:       h.Network,
	}

	switch infoFormat {
	case "text":
		fmt.Printf("magic:          %s\n", info.Magic)
		fmt.Printf("byte_order:     %s\n", info.ByteOrder)
		fmt.Printf("timestamp_unit: %s\n", info.TimestampUnit)
		fmt.Printf("version:        %s\n", info.Version)
		fmt.Printf("thiszone:       %d\n", info.ThisZone)
		fmt.Printf("sigfigs:        %d\n", info.SigFigs)
		fmt.Printf("snaplen:        %d\n", info.SnapLen)
		fmt.Printf("link_type:      %s (%d)\n", info.LinkType, info.Network)
	case "json":
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(info)
		if err != nil {
			return err
		}
		os.Stdout.Write(out)
	default:
		return fmt.Errorf("unsupported format: %s (must be text/json/yaml)", infoFormat)
	}
	return nil
}
