package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/lake/crypto"
)

// Reference key material for a deterministic demo run.
var (
	refDevEUI = []byte{0x01, 0x01, 0x02, 0x03, 0x02, 0x04, 0x05, 0x07}
	refAppEUI = []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}

	refEphI = []byte{
		0xB3, 0x11, 0x19, 0x98, 0xCB, 0x3F, 0x66, 0x86, 0x63, 0xED, 0x42, 0x51,
		0xC7, 0x8B, 0xE6, 0xE9, 0x5A, 0x4D, 0xA1, 0x27, 0xE4, 0xF6, 0xFE, 0xE2,
		0x75, 0xE8, 0x55, 0xD8, 0xD9, 0xDF, 0xD8, 0xED,
	}
	refStatI = []byte{
		0xCF, 0xC4, 0xB6, 0xED, 0x22, 0xE7, 0x00, 0xA3, 0x0D, 0x5C, 0x5B, 0xCD,
		0x61, 0xF1, 0xF0, 0x20, 0x49, 0xDE, 0x23, 0x54, 0x62, 0x33, 0x48, 0x93,
		0xD6, 0xFF, 0x9F, 0x0C, 0xFE, 0xA3, 0xFE, 0x04,
	}
	refEphR = []byte{
		0xBD, 0x86, 0xEA, 0xF4, 0x06, 0x5A, 0x83, 0x6C, 0xD2, 0x9D, 0x0F, 0x06,
		0x91, 0xCA, 0x2A, 0x8E, 0xC1, 0x3F, 0x51, 0xD1, 0xC4, 0x5E, 0x1B, 0x43,
		0x72, 0xC0, 0xCB, 0xE4, 0x93, 0xCE, 0xF6, 0xBD,
	}
	refStatR = []byte{
		0x52, 0x8B, 0x49, 0xC6, 0x70, 0xF8, 0xFC, 0x16, 0xA2, 0xAD, 0x95, 0xC1,
		0x88, 0x5B, 0x2E, 0x24, 0xFB, 0x15, 0x76, 0x22, 0x72, 0x79, 0x2A, 0xA1,
		0xCF, 0x05, 0x1D, 0xF5, 0xD9, 0x3D, 0x36, 0x94,
	}
	refKIDI = []byte{0x05}
	refKIDR = []byte{0x10}
)

func referenceDevEUI() []byte { return refDevEUI }
func referenceAppEUI() []byte { return refAppEUI }

func referenceInitiator() (eph, static, kid []byte) {
	return refEphI, refStatI, refKIDI
}

func referenceResponder() (eph, static, kid []byte) {
	return refEphR, refStatR, refKIDR
}

func publicKeys(statI, statR []byte) (pubI, pubR []byte, err error) {
	if pubI, err = crypto.X25519Public(statI); err != nil {
		return nil, nil, fmt.Errorf("initiator static key: %w", err)
	}
	if pubR, err = crypto.X25519Public(statR); err != nil {
		return nil, nil, fmt.Errorf("responder static key: %w", err)
	}
	return pubI, pubR, nil
}

var vectorsCmd = &cobra.Command{
	Use:   "vectors",
	Short: "Print the reference test vectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		pubI, pubR, err := publicKeys(refStatI, refStatR)
		if err != nil {
			return err
		}
		ephPubI, err := crypto.X25519Public(refEphI)
		if err != nil {
			return err
		}
		ephPubR, err := crypto.X25519Public(refEphR)
		if err != nil {
			return err
		}
		for _, v := range []struct {
			name string
			b    []byte
		}{
			{"devEui", refDevEUI},
			{"appEui", refAppEUI},
			{"kidI", refKIDI},
			{"kidR", refKIDR},
			{"ephI.private", refEphI},
			{"ephI.public", ephPubI},
			{"ephR.private", refEphR},
			{"ephR.public", ephPubR},
			{"staticI.private", refStatI},
			{"staticI.public", pubI},
			{"staticR.private", refStatR},
			{"staticR.public", pubR},
		} {
			fmt.Printf("%-15s %s\n", v.name, hex.EncodeToString(v.b))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vectorsCmd)
}
