// Package cli provides the vaultrecovery command line.
//
// It wires configuration, the database or an exported snapshot, password
// prompts and the recovery service behind five subcommands:
//
//   - info     list users with a current key and the vaults they can reach
//   - export   write the still encrypted snapshot of one user
//   - decrypt  open an exported snapshot or an encrypted package
//   - encrypt  seal a raw or plain document under a password
//   - recover  decrypt every reachable vault into an output directory
//   - version  print build information
//
// Passwords are read from the terminal without echo. A passfile given with
// --passfile is combined with the typed password, which may then be empty.
package cli
