// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/plugver/plugver/cmd/plugver"

func main() {
	cmd.Execute()
}
