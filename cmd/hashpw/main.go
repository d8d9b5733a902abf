// Command hashpw prompts for a password and prints its stored-hash string,
// ready to be put into a user directory.
//
//	hashpw [-i iterations]
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/cryptox"
	"github.com/dmitrijs2005/userauth/internal/prompt"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hashpw", flag.ContinueOnError)
	fs.SetOutput(stderr)
	iterations := fs.Int("i", cryptox.DefaultIterations, "PBKDF2 iterations")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *iterations <= 0 || *iterations > cryptox.MaxIterations {
		return fmt.Errorf("iterations must be between 1 and %d", cryptox.MaxIterations)
	}

	password, err := prompt.GetPassword("Password", stderr)
	defer common.WipeByteArray(password)
	if err != nil {
		return err
	}
	if len(password) == 0 {
		return errors.New("empty password")
	}

	confirm, err := prompt.GetPassword("Repeat password", stderr)
	defer common.WipeByteArray(confirm)
	if err != nil {
		return err
	}
	if !bytes.Equal(password, confirm) {
		return errors.New("passwords do not match")
	}

	hash, err := cryptox.NewPasswordHasher(*iterations).Hash(string(password))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, hash)
	return err
}
