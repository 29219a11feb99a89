package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/lake/config"
	"github.com/sage-x-project/lake/edhoc"
	"github.com/sage-x-project/lake/internal/logger"
)

var configFile string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a complete handshake in-process",
	Long: `Run the four-message handshake between an in-process initiator and
responder, printing every wire message and the exported channel keys.

Without --config the reference vectors are used; with --config the key
material comes from a YAML file.`,
	Example: `  # Run with the reference vectors
  lake demo

  # Run with your own key material
  lake demo --config keys.yaml`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file (default: reference vectors)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	log := logger.New("demo")

	devEUI, appEUI := referenceDevEUI(), referenceAppEUI()
	ephI, statI, kidI := referenceInitiator()
	ephR, statR, kidR := referenceResponder()
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		devEUI, appEUI = cfg.DevEUIBytes(), cfg.AppEUIBytes()
		ephI, statI, kidI = cfg.Initiator.Bytes()
		ephR, statR, kidR = cfg.Responder.Bytes()
	}

	statPubI, statPubR, err := publicKeys(statI, statR)
	if err != nil {
		return err
	}

	// Initiator opens.
	sender, err := edhoc.NewInitiator(devEUI, appEUI, ephI, statI, statPubI, kidI)
	if err != nil {
		return err
	}
	msg1, msg2Receiver, err := sender.GenerateMessage1(edhoc.MethodStaticDH, edhoc.Suite0)
	if err != nil {
		return err
	}
	printMsg("message_1", msg1)

	// Responder answers.
	receiver, err := edhoc.NewResponder(ephR, statR, statPubR, kidR)
	if err != nil {
		return err
	}
	msg2Sender, gotDevEUI, gotAppEUI, err := receiver.HandleMessage1(msg1)
	if err != nil {
		return err
	}
	log.Info("message 1 accepted",
		logger.String("devEui", hex.EncodeToString(gotDevEUI)),
		logger.String("appEui", hex.EncodeToString(gotAppEUI)))
	msg2, msg3Receiver, err := msg2Sender.GenerateMessage2(nil)
	if err != nil {
		return err
	}
	printMsg("message_2", msg2)

	// Initiator verifies the responder; the KID would normally drive a
	// key lookup.
	peerKIDR, _, msg2Verifier, err := msg2Receiver.UnpackMessage2(msg2)
	if err != nil {
		return err
	}
	log.Info("responder kid", logger.String("kid", hex.EncodeToString(peerKIDR)))
	msg3Sender, err := msg2Verifier.VerifyMessage2(statPubR)
	if err != nil {
		return err
	}
	msg4Verifier, msg3, err := msg3Sender.GenerateMessage3(nil)
	if err != nil {
		return err
	}
	printMsg("message_3", msg3)

	// Responder verifies the initiator and finishes.
	peerKIDI, _, msg3Verifier, err := msg3Receiver.UnpackMessage3(msg3)
	if err != nil {
		return err
	}
	log.Info("initiator kid", logger.String("kid", hex.EncodeToString(peerKIDI)))
	msg4Sender, rSCK, rRCK, rRK, err := msg3Verifier.VerifyMessage3(statPubI)
	if err != nil {
		return err
	}
	msg4, err := msg4Sender.GenerateMessage4(nil)
	if err != nil {
		return err
	}
	printMsg("message_4", msg4)

	// Initiator finishes.
	iSCK, iRCK, iRK, err := msg4Verifier.HandleMessage4(msg4)
	if err != nil {
		return err
	}

	fmt.Println("initiator:")
	printKey("  sck", iSCK)
	printKey("  rck", iRCK)
	printKey("  rk ", iRK)
	fmt.Println("responder:")
	printKey("  sck", rSCK)
	printKey("  rck", rRCK)
	printKey("  rk ", rRK)
	return nil
}

func printMsg(name string, b []byte) {
	fmt.Printf("%-9s (%d bytes): %s\n", name, len(b), hex.EncodeToString(b))
}

func printKey(name string, b []byte) {
	fmt.Printf("%s: %s\n", name, hex.EncodeToString(b))
}
