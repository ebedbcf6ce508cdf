// SPDX-License-Identifier: MPL-2.0

package main

import cmd "cmplr-cli/cmd/cmplr"

func main() {
	cmd.Execute()
}
