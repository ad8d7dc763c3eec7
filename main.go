// SPDX-License-Identifier: MPL-2.0

// Command amaterasu is the amaterasu CLI.
package main

import cmd "github.com/ama-terasu/amaterasu/cmd/amaterasu"

func main() {
	cmd.Execute()
}
