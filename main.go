package main

import (
	"github.com/ether/seqfield-go/lib/cli"
)

func main() {
	cli.Execute()
}
