package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/vaultrecovery/internal/keyring"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetPassword prints prompt to w and reads a password from the terminal
// without echo. The caller should wipe the returned slice.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

// readSecret builds a secret from a prompted password and, when passfile is
// set, the content of that file.
func readSecret(w io.Writer, prompt, passfile string) (keyring.Secret, error) {
	var s keyring.Secret

	if passfile != "" {
		data, err := os.ReadFile(passfile)
		if err != nil {
			return s, fmt.Errorf("passfile: %w", err)
		}
		s.Passfile = data
		prompt += " (empty to use the passfile only)"
	}

	pw, err := GetPassword(w, prompt+": ")
	if err != nil {
		s.Wipe()
		return keyring.Secret{}, err
	}
	s.Password = pw
	return s, nil
}
