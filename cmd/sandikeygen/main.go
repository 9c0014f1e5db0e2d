// sandikeygen generates a sandichain key pair and optionally saves it to
// an encrypted keystore file.
//
// Usage:
//
//	sandikeygen                                  Print a random address and private key.
//	sandikeygen --mnemonic                       Generate a BIP-39 mnemonic-derived key pair instead.
//	sandikeygen --save <name> --keystore <dir>   Save the generated key, encrypted, to the keystore.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/sandichain/node/internal/wallet"
)

func main() {
	mnemonicFlag := flag.Bool("mnemonic", false, "derive the key pair from a freshly generated BIP-39 mnemonic")
	saveName := flag.String("save", "", "save the key pair under this name in an encrypted keystore")
	keystoreDir := flag.String("keystore", "./keystore", "keystore directory (used with --save)")
	flag.Parse()

	var (
		w        *wallet.Wallet
		mnemonic string
		err      error
	)

	if *mnemonicFlag {
		mnemonic, err = wallet.GenerateMnemonic()
		if err != nil {
			fatal("generate mnemonic: %v", err)
		}
		w, err = wallet.FromMnemonic(mnemonic, "", wallet.StartingBalance)
		if err != nil {
			fatal("derive key pair from mnemonic: %v", err)
		}
	} else {
		w, err = wallet.New(wallet.StartingBalance)
		if err != nil {
			fatal("generate key pair: %v", err)
		}
	}

	fmt.Printf("Address: %s\n", w.Address())
	fmt.Printf("Private key: %s\n", hex.EncodeToString(w.PrivateKey().Serialize()))
	if mnemonic != "" {
		fmt.Printf("Mnemonic (write this down!): %s\n", mnemonic)
	}

	if *saveName == "" {
		return
	}

	password, err := readPassword("Enter keystore password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm keystore password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	ks, err := wallet.NewKeystore(*keystoreDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	if err := ks.Save(*saveName, w.KeyPair(), password, wallet.DefaultParams()); err != nil {
		fatal("save to keystore: %v", err)
	}
	fmt.Printf("\nSaved %q to %s\n", *saveName, *keystoreDir)
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return password, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
