// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/selacomods/scmtool/cmd/scmtool"

func main() {
	cmd.Execute()
}
